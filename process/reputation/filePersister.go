package reputation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/multiversx/mx-chain-core-go/core/check"
	"github.com/multiversx/mx-chain-core-go/marshal"
	"github.com/multiversx/mx-swarm-go/data"
)

const tmpFileSuffix = ".tmp"

// filePersister keeps the reputation snapshot in one marshalled file. Writes
// go to a temporary file first and are renamed over the live one, so a crash
// mid-write never yields a torn snapshot; readers see either the previous
// snapshot or the new one, never a partial file.
type filePersister struct {
	marshalizer marshal.Marshalizer
	filePath    string
}

// NewFilePersister creates a new file-backed snapshot persister, making sure
// the target directory exists
func NewFilePersister(marshalizer marshal.Marshalizer, filePath string) (*filePersister, error) {
	if check.IfNil(marshalizer) {
		return nil, ErrNilMarshalizer
	}
	if len(filePath) == 0 {
		return nil, ErrInvalidFilePath
	}

	err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("%w while creating the snapshot directory", err)
	}

	return &filePersister{
		marshalizer: marshalizer,
		filePath:    filePath,
	}, nil
}

// Save writes the provided records over the live snapshot file
func (fp *filePersister) Save(records map[string]*data.AgentReputation) error {
	buff, err := fp.marshalizer.Marshal(records)
	if err != nil {
		return err
	}

	tmpPath := fp.filePath + tmpFileSuffix
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	_, err = file.Write(buff)
	if err != nil {
		_ = file.Close()
		return err
	}

	err = file.Sync()
	if err != nil {
		_ = file.Close()
		return err
	}

	err = file.Close()
	if err != nil {
		return err
	}

	return os.Rename(tmpPath, fp.filePath)
}

// Load reads the live snapshot file. A missing file is not an error: it yields
// an empty record set.
func (fp *filePersister) Load() (map[string]*data.AgentReputation, error) {
	buff, err := os.ReadFile(fp.filePath)
	if os.IsNotExist(err) {
		return make(map[string]*data.AgentReputation), nil
	}
	if err != nil {
		return nil, err
	}

	records := make(map[string]*data.AgentReputation)
	err = fp.marshalizer.Unmarshal(&records, buff)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// IsInterfaceNil returns true if there is no value under the interface
func (fp *filePersister) IsInterfaceNil() bool {
	return fp == nil
}
