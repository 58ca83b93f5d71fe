package modelstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Shrirang13/SecuRizz/internal/models"
)

// Store persists model version artifacts to a directory and holds the
// process-wide "current version" handle. The handle follows a single-writer,
// many-reader discipline: only the learning loop publishes, readers take
// lock-free snapshots via Current.
type Store struct {
	dir     string
	current atomic.Pointer[models.ModelVersion]
	logger  *zap.Logger
}

// pointerFile names the artifact holding the current-version id.
const pointerFile = "current.json"

type pointerRecord struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Open loads the store at dir. When no current pointer exists yet, it
// bootstraps version 1.0.0 with the built-in label space.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model store directory: %w", err)
	}

	s := &Store{dir: dir, logger: logger}

	version, err := s.readPointer()
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		initial := &models.ModelVersion{
			Version:     "1.0.0",
			LabelSpace:  models.DefaultLabelSpace(),
			Calibration: map[string]float64{},
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.Publish(initial); err != nil {
			return nil, fmt.Errorf("failed to bootstrap initial model version: %w", err)
		}
		logger.Info("Bootstrapped initial model version", zap.String("version", initial.Version))
		return s, nil
	}

	mv, err := s.readArtifact(version)
	if err != nil {
		return nil, err
	}
	s.current.Store(mv)
	logger.Info("Loaded current model version", zap.String("version", mv.Version))
	return s, nil
}

// Current returns the current model version. The snapshot stays valid for the
// whole analysis even if a new version is published meanwhile.
func (s *Store) Current() *models.ModelVersion {
	return s.current.Load()
}

// Publish persists the artifact, updates the pointer file and atomically
// swaps the in-process handle. The pointer file is written via rename so a
// crash never leaves a half-written pointer.
func (s *Store) Publish(mv *models.ModelVersion) error {
	artifactPath := filepath.Join(s.dir, fmt.Sprintf("model_%s.json", mv.Version))
	if err := writeJSONAtomic(artifactPath, mv); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}

	record := pointerRecord{Version: mv.Version, UpdatedAt: time.Now().UTC()}
	if err := writeJSONAtomic(filepath.Join(s.dir, pointerFile), record); err != nil {
		return fmt.Errorf("failed to write current-version pointer: %w", err)
	}

	s.current.Store(mv)
	return nil
}

// History returns the training history of the current version.
func (s *Store) History() []models.TrainingEvent {
	mv := s.Current()
	if mv == nil {
		return nil
	}
	return mv.TrainingHistory
}

func (s *Store) readPointer() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, pointerFile))
	if err != nil {
		return "", err
	}
	var record pointerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return "", fmt.Errorf("failed to decode current-version pointer: %w", err)
	}
	return record.Version, nil
}

func (s *Store) readArtifact(version string) (*models.ModelVersion, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, fmt.Sprintf("model_%s.json", version)))
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", version, err)
	}
	var mv models.ModelVersion
	if err := json.Unmarshal(data, &mv); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact %s: %w", version, err)
	}
	return &mv, nil
}

func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
