package assistant

import (
	"os"
	"path/filepath"
	"testing"

	"mediroom/utils/logging"

	"github.com/stretchr/testify/assert"
)

func TestLoadVariants_MissingFileUsesDefaults(t *testing.T) {
	logging.InitLogger()
	table := LoadVariants("no-such-file.yaml", "asst_fallback")

	assert.Equal(t, "clinical", table.Default())
	assert.Equal(t, "asst_fallback", table.AssistantID("clinical"))
	assert.Equal(t, "asst_fallback", table.AssistantID("emergency"))
	assert.Equal(t, "asst_fallback", table.AssistantID("unknown"))
}

func TestLoadVariants_FromFile(t *testing.T) {
	logging.InitLogger()
	path := filepath.Join(t.TempDir(), "variants.yaml")
	content := `default: emergency
variants:
  - name: clinical
    assistant_id: asst_clin
  - name: emergency
    assistant_id: asst_emerg
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write variants file: %v", err)
	}

	table := LoadVariants(path, "asst_fallback")
	assert.Equal(t, "emergency", table.Default())
	assert.Equal(t, "asst_clin", table.AssistantID("clinical"))
	assert.Equal(t, "asst_emerg", table.AssistantID("emergency"))
	// Unknown names fall back to the default variant.
	assert.Equal(t, "asst_emerg", table.AssistantID("made-up"))
}
