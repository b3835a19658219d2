package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"robotadvisor/internal/core"
)

// metadataFiles are tried in order.
var metadataFiles = []string{"robot_metadata.json", "robot_metadata.yaml", "robot_metadata.yml"}

// robotMetadata holds raw values so non-numeric entries can be reported
// instead of failing the whole file.
type robotMetadata struct {
	PurchasePrice          any `json:"purchase_price" yaml:"purchase_price"`
	OpCostPerMin           any `json:"op_cost_per_min" yaml:"op_cost_per_min"`
	EndEffectorCostPercent any `json:"end_effector_cost_percent" yaml:"end_effector_cost_percent"`
}

// loadMetadata reads the financial metadata keyed by URDF file name. A missing
// file yields empty metadata.
func loadMetadata(assetsDir string) (map[string]robotMetadata, string, error) {
	for _, name := range metadataFiles {
		path := filepath.Join(assetsDir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, err
		}
		meta := map[string]robotMetadata{}
		unmarshal := yaml.Unmarshal
		if filepath.Ext(path) == ".json" {
			unmarshal = json.Unmarshal
		}
		if err := unmarshal(data, &meta); err != nil {
			return nil, path, fmt.Errorf("decode %s: %w", path, err)
		}
		return meta, path, nil
	}
	return map[string]robotMetadata{}, "", nil
}

// apply merges metadata into a record. It returns the names of fields whose
// values were present but not numeric.
func (m robotMetadata) apply(r *core.RobotRecord) []string {
	var invalid []string
	set := func(field string, raw any, dst **float64) {
		if raw == nil {
			return
		}
		v, ok := core.ParseNumber(raw)
		if !ok {
			invalid = append(invalid, field)
			return
		}
		*dst = &v
	}
	set("purchase_price", m.PurchasePrice, &r.PurchasePrice)
	set("op_cost_per_min", m.OpCostPerMin, &r.OpCostPerMin)
	set("end_effector_cost_percent", m.EndEffectorCostPercent, &r.EndEffectorCostPercent)
	return invalid
}
