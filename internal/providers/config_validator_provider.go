package providers

import (
	"errors"

	"github.com/gookit/validate"

	"jumptimer/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	v.StopOnError = false
	if !v.Validate() {
		return errors.New(v.Errors.String())
	}
	if c.conf.Timer.TickLength < 0 || c.conf.Timer.FrameInterval < 0 {
		return errors.New("timer durations must not be negative")
	}
	return nil
}
