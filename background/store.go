package background

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/AltairaLabs/BackdropKit/media"
)

// Upload validation errors.
var (
	// ErrNotAnImage indicates the declared media type is not an image type.
	ErrNotAnImage = errors.New("uploaded file is not an image")

	// ErrInvalidImage indicates the uploaded bytes could not be decoded.
	ErrInvalidImage = errors.New("uploaded file is not a decodable image")
)

const (
	// customIDPrefix namespaces generated upload identifiers.
	customIDPrefix = "custom_"

	// customIDHexLen is how many hex characters of the token go into the id.
	customIDHexLen = 8

	dirPerm  = 0o750
	filePerm = 0o640
)

// Store persists uploaded background originals on the local filesystem and
// registers their decoded pixels into a Registry. The persisted file and the
// registry entry always agree on identifier: a failed decode removes the
// file, and a failed registration removes the file.
type Store struct {
	baseDir  string
	registry *Registry

	// servePrefix is the URL path under which originals are served,
	// e.g. "/backgrounds/files".
	servePrefix string
}

// NewStore creates a Store rooted at baseDir, creating the directory if
// needed.
func NewStore(baseDir, servePrefix string, registry *Registry) (*Store, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(baseDir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Store{
		baseDir:     baseDir,
		registry:    registry,
		servePrefix: strings.TrimSuffix(servePrefix, "/"),
	}, nil
}

// BaseDir returns the directory holding uploaded originals.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Ingest validates and registers one uploaded background.
//
// Steps: reject non-image declared media types; persist the raw bytes under a
// freshly generated id; decode; on decode failure remove the file and fail;
// otherwise register the decoded buffer under the same id. The returned
// Background carries the serving URL of the persisted original.
func (s *Store) Ingest(data []byte, declaredType string) (*Background, error) {
	mediaType := declaredType
	if parsed, _, err := mime.ParseMediaType(declaredType); err == nil {
		mediaType = parsed
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return nil, fmt.Errorf("%w: declared type %q", ErrNotAnImage, declaredType)
	}

	id := customIDPrefix + uuid.NewString()[:customIDHexLen]
	filename := id + "." + media.MIMETypeToExtension(mediaType)
	path, err := s.resolvePath(filename)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return nil, fmt.Errorf("failed to persist upload: %w", err)
	}

	frame, err := media.Decode(data)
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bg := &Background{
		ID:    id,
		Kind:  KindCustom,
		Label: "Custom " + strings.TrimPrefix(id, customIDPrefix),
		Pix:   frame,
		URL:   s.servePrefix + "/" + filename,
	}
	if err := s.registry.Register(bg); err != nil {
		// Generated ids make collisions a programming-invariant violation
		// rather than an expected path, but the file must not outlive a
		// failed registration.
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to register upload: %w", err)
	}

	return bg, nil
}

// resolvePath joins filename onto the base directory, rejecting anything that
// escapes it.
func (s *Store) resolvePath(filename string) (string, error) {
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	path := filepath.Clean(filepath.Join(absBase, filename))
	if !strings.HasPrefix(path+string(filepath.Separator), absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside base directory %q", filename, s.baseDir)
	}
	return path, nil
}
