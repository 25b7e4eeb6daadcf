// Package convert runs the full pipeline from the two JSON inputs to an
// encrypted export document.
package convert

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvinuesa/bwexporter/internal/adapter"
	"github.com/nvinuesa/bwexporter/internal/export"
	"github.com/nvinuesa/bwexporter/internal/input"
)

// Options configures a conversion.
type Options struct {
	// Adapter configures record conversion (clock, ID source). A nil
	// Adapter.Logger inherits Logger.
	Adapter adapter.Options
	// Exporter produces the document. Nil uses an encrypted JSON exporter
	// with export.DefaultOptions.
	Exporter export.Exporter
	// Logger receives pipeline events. It is passed to the adapter and the
	// default exporter when they have none of their own.
	Logger *zap.Logger
}

// DefaultOptions returns the production configuration.
func DefaultOptions() Options {
	return Options{
		Adapter: adapter.Options{Now: time.Now, NewID: uuid.New},
		Logger:  zap.NewNop(),
	}
}

// EncryptedJSON parses foldersJSON and ciphersJSON, converts them into
// export records and encrypts them with password.
//
// Errors are either *input.MalformedInputError or *export.ExportError.
func EncryptedJSON(foldersJSON, ciphersJSON, password string, opts Options) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	folderInputs, err := input.ParseFolders(foldersJSON)
	if err != nil {
		return "", err
	}
	cipherInputs, err := input.ParseCiphers(ciphersJSON)
	if err != nil {
		return "", err
	}

	logger.Debug("parsed input",
		zap.Int("folders", len(folderInputs)),
		zap.Int("ciphers", len(cipherInputs)),
	)

	adapterOpts := opts.Adapter
	if adapterOpts.Logger == nil {
		adapterOpts.Logger = logger
	}
	a := adapter.New(adapterOpts)
	folders := a.Folders(folderInputs)
	ciphers := a.Ciphers(cipherInputs)

	exporter := opts.Exporter
	if exporter == nil {
		exportOpts := export.DefaultOptions()
		exportOpts.Logger = logger
		exporter = export.NewEncryptedJSONExporter(exportOpts)
	}

	out, err := exporter.Export(folders, ciphers, password)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
