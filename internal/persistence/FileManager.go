package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"jumptimer/internal/persistence/interfaces"
	"jumptimer/internal/providers"
	"jumptimer/internal/structures"
)

// FormatVersion is written into every store file.
const FormatVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported store format version")

type envelope struct {
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items"`
}

// FileManager reads and writes flat entity lists, one file per collection.
type FileManager struct {
	dir        string
	compressed bool
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		dir:        conf.Persistence.Dir,
		compressed: conf.Persistence.Compress,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileManager) Path(name string) string {
	if f.compressed {
		return filepath.Join(f.dir, name+".json.zst")
	}
	return filepath.Join(f.dir, name+".json")
}

// Save replaces the collection file atomically: readers see either the old
// file or the new one, never a partial write.
func (f *FileManager) Save(name string, items any) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(envelope{Version: FormatVersion, Items: raw})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	fileName := f.Path(name)
	if err := os.MkdirAll(filepath.Dir(fileName), 0755); err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// Load decodes the collection into items, which must be a pointer to a
// slice. A missing file leaves items untouched and is not an error.
func (f *FileManager) Load(name string, items any) error {
	fileName := f.Path(name)
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", fileName, err)
	}

	var env envelope
	if err := json.Unmarshal(decompressed, &env); err == nil && env.Items != nil {
		if env.Version > FormatVersion {
			return fmt.Errorf("%s: %w %d", fileName, ErrUnsupportedVersion, env.Version)
		}
		if err := json.Unmarshal(env.Items, items); err != nil {
			return fmt.Errorf("decode %s: %w", fileName, err)
		}
		return nil
	}

	// Files written before the envelope existed hold a bare list.
	f.logger.Warnf(providers.TypeStorage, "Store %s has no version envelope, trying bare list format", fileName)
	if err := json.Unmarshal(decompressed, items); err != nil {
		f.logger.Warnf(providers.TypeStorage, "Migration of %s failed", fileName)
		return fmt.Errorf("decode %s: %w", fileName, err)
	}
	f.logger.Warnf(providers.TypeStorage, "Migration of %s from bare list format successful", fileName)
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
