package convert

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nvinuesa/bwexporter/internal/adapter"
	"github.com/nvinuesa/bwexporter/internal/export"
	"github.com/nvinuesa/bwexporter/internal/input"
)

const (
	testPassword = "password"
	testFolders  = `[{"id":"00000000-0000-0000-0000-000000000001","name":"My Folder"}]`
	testCiphers  = `[{"folderId":"00000000-0000-0000-0000-000000000001","name":"My Test","notes":"My Notes","username":"my_username","password":"my_password","loginUris":["https://example.com"]}]`
)

func fastExporter() export.Exporter {
	opts := export.DefaultOptions()
	opts.KDF = export.KDF{Type: export.KDFTypePBKDF2, Iterations: export.MinPBKDF2Iterations}
	return export.NewEncryptedJSONExporter(opts)
}

func fixedAdapter() adapter.Options {
	n := 0
	return adapter.Options{
		Now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		NewID: func() uuid.UUID {
			n++
			return uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(n)})
		},
	}
}

func TestEncryptedJSON(t *testing.T) {
	out, err := EncryptedJSON(testFolders, testCiphers, testPassword, DefaultOptions())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Equal(t, true, raw["encrypted"])
	assert.Equal(t, true, raw["passwordProtected"])
	assert.Equal(t, float64(0), raw["kdfType"])
	assert.Equal(t, float64(600000), raw["kdfIterations"])
	assert.Nil(t, raw["kdfMemory"])
	assert.Nil(t, raw["kdfParallelism"])
	assert.NotEmpty(t, raw["salt"])
	assert.Regexp(t, `^2\.`, raw["encKeyValidation_DO_NOT_EDIT"])
	assert.Regexp(t, `^2\.`, raw["data"])

	p, err := export.DecryptPayload([]byte(out), testPassword)
	require.NoError(t, err)
	require.Len(t, p.Folders, 1)
	assert.Equal(t, "My Folder", p.Folders[0].Name)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "My Test", p.Items[0].Name)
	assert.Equal(t, "my_password", *p.Items[0].Login.Password)
	assert.Equal(t, p.Folders[0].ID, *p.Items[0].FolderID)
}

func TestEncryptedJSON_MalformedFolders(t *testing.T) {
	folders := `[{"id":"00000000-0000-0000-0000-000000000001","name":"My Folder"}`

	out, err := EncryptedJSON(folders, testCiphers, testPassword, DefaultOptions())
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, input.IsMalformedInput(err))
	assert.Contains(t, err.Error(), "folders")
}

func TestEncryptedJSON_MalformedCiphers(t *testing.T) {
	ciphers := `[{"folderId":"00000000-0000-0000-0000-000000000001","name":"My Test","notes":"My Notes","username":"my_username","password":"my_password","loginUris":["https://example.com"]}`

	out, err := EncryptedJSON(testFolders, ciphers, testPassword, DefaultOptions())
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, input.IsMalformedInput(err))
	assert.Contains(t, err.Error(), "ciphers")
}

func TestEncryptedJSON_ExportFailure(t *testing.T) {
	tests := []struct {
		name     string
		folders  string
		ciphers  string
		password string
	}{
		{"Unknown folder", `[]`, testCiphers, testPassword},
		{"Empty password", testFolders, testCiphers, ""},
		{"Duplicate folder", `[{"id":"00000000-0000-0000-0000-000000000001","name":"a"},{"id":"00000000-0000-0000-0000-000000000001","name":"b"}]`, `[]`, testPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Exporter = fastExporter()

			_, err := EncryptedJSON(tt.folders, tt.ciphers, tt.password, opts)
			require.Error(t, err)
			assert.True(t, export.IsExportFailure(err))
			assert.False(t, input.IsMalformedInput(err))
		})
	}
}

func TestEncryptedJSON_EmptyVault(t *testing.T) {
	opts := DefaultOptions()
	opts.Exporter = fastExporter()

	out, err := EncryptedJSON(`[]`, `[]`, testPassword, opts)
	require.NoError(t, err)

	p, err := export.DecryptPayload([]byte(out), testPassword)
	require.NoError(t, err)
	assert.Empty(t, p.Folders)
	assert.Empty(t, p.Items)
}

func TestEncryptedJSON_SamePlaintext(t *testing.T) {
	run := func() ([]byte, string) {
		opts := Options{Adapter: fixedAdapter(), Exporter: fastExporter()}
		out, err := EncryptedJSON(testFolders, testCiphers, testPassword, opts)
		require.NoError(t, err)

		plain, err := export.Decrypt([]byte(out), testPassword)
		require.NoError(t, err)
		return plain, out
	}

	plainA, outA := run()
	plainB, outB := run()

	assert.Equal(t, plainA, plainB)
	assert.NotEqual(t, outA, outB)
}

func TestDefaultOptions_AdapterInheritsLogger(t *testing.T) {
	assert.Nil(t, DefaultOptions().Adapter.Logger)
}

func TestEncryptedJSON_WarningReachesLogger(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)
	opts.Exporter = fastExporter()

	_, err := EncryptedJSON(`[]`, `[{"name":"x","loginUris":["example"]}]`, testPassword, opts)
	require.NoError(t, err)

	entries := logs.FilterMessageSnippet("not an absolute URL").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "example", entries[0].ContextMap()["uri"])
}

func TestEncryptedJSON_AdapterLoggerWins(t *testing.T) {
	pipelineCore, pipelineLogs := observer.New(zapcore.WarnLevel)
	adapterCore, adapterLogs := observer.New(zapcore.WarnLevel)

	opts := DefaultOptions()
	opts.Logger = zap.New(pipelineCore)
	opts.Adapter.Logger = zap.New(adapterCore)
	opts.Exporter = fastExporter()

	_, err := EncryptedJSON(`[]`, `[{"name":"x","loginUris":["example"]}]`, testPassword, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, adapterLogs.Len())
	assert.Equal(t, 0, pipelineLogs.Len())
}

func TestEncryptedJSON_LargeVault(t *testing.T) {
	folders := make([]string, 1001)
	for i := range folders {
		folders[i] = fmt.Sprintf(`{"id":"%s","name":"Folder %d"}`, uuid.New(), i)
	}

	uris := make([]string, 150)
	for i := range uris {
		uris[i] = fmt.Sprintf(`"https://%d.example.com"`, i)
	}
	ciphers := fmt.Sprintf(`[{"name":"%s","password":"%s","loginUris":[%s]}]`,
		strings.Repeat("n", 2048), strings.Repeat("p", 4096), strings.Join(uris, ","))

	opts := DefaultOptions()
	opts.Exporter = fastExporter()

	out, err := EncryptedJSON("["+strings.Join(folders, ",")+"]", ciphers, testPassword, opts)
	require.NoError(t, err)

	p, err := export.DecryptPayload([]byte(out), testPassword)
	require.NoError(t, err)
	assert.Len(t, p.Folders, 1001)
	require.Len(t, p.Items, 1)
	assert.Len(t, *p.Items[0].Login.Password, 4096)
	assert.Len(t, p.Items[0].Login.URIs, 150)
}
