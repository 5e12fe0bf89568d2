package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

const tempFileSuffix = ".tmp"

// DefaultBFTConfig returns the engine policy used when no file-based configuration is provided
func DefaultBFTConfig() BFTConfig {
	return BFTConfig{
		Reputation: ReputationConfig{
			ExclusionThreshold:        0.3,
			RehabilitationThreshold:   0.5,
			MinReputationForConsensus: 0.4,
			MaxFaultsBeforeExclusion:  10,
			SuccessRecovery:           0.02,
			BlacklistSpanInSec:        3600,
		},
		FaultPolicy: FaultPolicyConfig{
			TimeoutPenalty:           0.1,
			EquivocationPenalty:      0.3,
			InconsistentVotePenalty:  0.2,
			ConflictingResultPenalty: 0.15,
		},
		Consensus: ConsensusConfig{
			TimeoutInSec:    30,
			MinParticipants: 4,
		},
		Authentication: AuthenticationConfig{
			MaxMessageAgeInSec:  300,
			NonceCacheSpanInSec: 600,
		},
		NTP: NTPConfig{
			Hosts:                 []string{"time.google.com", "time.cloudflare.com"},
			SyncPeriodInSec:       3600,
			TimeoutInMilliseconds: 100,
			Version:               4,
		},
	}
}

// LoadBFTConfig opens and decodes the toml file found at the provided path
func LoadBFTConfig(filePath string) (*BFTConfig, error) {
	cfg := &BFTConfig{}
	err := loadTomlFile(cfg, filePath)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveBFTConfig writes the configuration snapshot at the provided path. The write
// goes through a temporary file followed by a rename so a crash mid-write never
// leaves a torn file behind.
func SaveBFTConfig(cfg *BFTConfig, filePath string) error {
	if cfg == nil {
		return ErrNilConfig
	}

	buff, err := toml.Marshal(*cfg)
	if err != nil {
		return fmt.Errorf("%w while marshalling the configuration", err)
	}

	return writeFileAtomically(filePath, buff)
}

func loadTomlFile(dest interface{}, relativePath string) error {
	path, err := filepath.Abs(relativePath)
	if err != nil {
		return err
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	return toml.NewDecoder(f).Decode(dest)
}

func writeFileAtomically(filePath string, buff []byte) error {
	path, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), os.ModePerm)
	if err != nil {
		return err
	}

	tempPath := path + tempFileSuffix
	f, err := os.OpenFile(filepath.Clean(tempPath), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	_, err = f.Write(buff)
	if err != nil {
		_ = f.Close()
		return err
	}

	err = f.Sync()
	if err != nil {
		_ = f.Close()
		return err
	}

	err = f.Close()
	if err != nil {
		return err
	}

	return os.Rename(tempPath, path)
}
