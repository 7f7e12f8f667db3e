package assistant

import (
	"os"

	"mediroom/utils/logging"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Variant selects which remote persona answers a turn, e.g. an emergency
// patient versus a clinical instructor. Selection is a pure input to
// SendTurn, never stored state on the client.
type Variant struct {
	Name        string `yaml:"name"`
	AssistantID string `yaml:"assistant_id"`
	Description string `yaml:"description,omitempty"`
}

type variantsFile struct {
	Default  string    `yaml:"default"`
	Variants []Variant `yaml:"variants"`
}

type VariantTable struct {
	byName      map[string]Variant
	defaultName string
}

// LoadVariants reads the variant table from a YAML file. When the file is
// missing or malformed the table falls back to a single default variant using
// fallbackAssistantID, so the platform still comes up.
func LoadVariants(path, fallbackAssistantID string) *VariantTable {
	table := &VariantTable{
		byName: map[string]Variant{
			"clinical":  {Name: "clinical", AssistantID: fallbackAssistantID},
			"emergency": {Name: "emergency", AssistantID: fallbackAssistantID},
		},
		defaultName: "clinical",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logging.AppLogger.Warn("variants file not readable, using defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return table
	}
	var file variantsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		logging.ErrorLogger.Error("variants file parse error",
			zap.String("path", path),
			zap.Error(err),
		)
		return table
	}
	if len(file.Variants) == 0 {
		return table
	}

	table.byName = make(map[string]Variant, len(file.Variants))
	for _, v := range file.Variants {
		table.byName[v.Name] = v
	}
	if file.Default != "" {
		table.defaultName = file.Default
	} else {
		table.defaultName = file.Variants[0].Name
	}
	return table
}

// AssistantID resolves a variant name, falling back to the default variant
// for unknown or empty names.
func (t *VariantTable) AssistantID(name string) string {
	if v, ok := t.byName[name]; ok {
		return v.AssistantID
	}
	return t.byName[t.defaultName].AssistantID
}

func (t *VariantTable) Default() string {
	return t.defaultName
}
