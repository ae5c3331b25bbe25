package export

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

func EncodeYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func WriteYAML(path string, v any) error {
	b, err := EncodeYAML(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// DecodeYAML parses a snapshot document. It does not check invariants; callers that load
// the result into a store get that check from store.NewFromSnapshot.
func DecodeYAML(b []byte) (domain.ProjectSnapshot, error) {
	var snap domain.ProjectSnapshot
	if err := yaml.Unmarshal(b, &snap); err != nil {
		return domain.ProjectSnapshot{}, fmt.Errorf("decode yaml snapshot: %w", err)
	}
	return snap, nil
}

func ReadYAML(path string) (domain.ProjectSnapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.ProjectSnapshot{}, err
	}
	return DecodeYAML(b)
}
