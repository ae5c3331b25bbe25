package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GoSim-25-26J-441/swc-studio-backend/internal/autosar/domain"
)

func EncodeJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func WriteJSON(path string, v any) error {
	b, err := EncodeJSON(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func DecodeJSON(b []byte) (domain.ProjectSnapshot, error) {
	var snap domain.ProjectSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return domain.ProjectSnapshot{}, fmt.Errorf("decode json snapshot: %w", err)
	}
	return snap, nil
}

func ReadJSON(path string) (domain.ProjectSnapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.ProjectSnapshot{}, err
	}
	return DecodeJSON(b)
}

// ReadSnapshot picks the decoder from the file extension; anything but .json is read as YAML.
func ReadSnapshot(path string) (domain.ProjectSnapshot, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ReadJSON(path)
	}
	return ReadYAML(path)
}
