// Package platform detects which web-application platform owns the project
// and verifies that platform is configured against the testing database.
package platform

import (
	"os"
	"path/filepath"

	"dbctx/internal/apperror"
)

// Kind identifies a detected platform
type Kind int

const (
	None Kind = iota
	MagentoOne
	MagentoTwo
	Laravel
)

func (k Kind) String() string {
	switch k {
	case MagentoOne:
		return "Magento 1"
	case MagentoTwo:
		return "Magento 2"
	case Laravel:
		return "Laravel"
	default:
		return "none"
	}
}

// Relative marker paths, checked at every directory level in this order.
const (
	MagentoOneLocalXML = "public/app/etc/local.xml"
	MagentoTwoMarker   = "bin/magento"
	LaravelMarker      = "artisan"
)

type marker struct {
	kind      Kind
	path      string
	supported bool
}

var markers = []marker{
	{kind: MagentoOne, path: MagentoOneLocalXML, supported: true},
	{kind: MagentoTwo, path: MagentoTwoMarker},
	{kind: Laravel, path: LaravelMarker},
}

// Detection is the outcome of a walk. ProjectRoot is empty for None.
type Detection struct {
	Kind        Kind
	ProjectRoot string
}

// Detector walks upward from Anchor looking for platform markers
type Detector struct {
	Anchor string
	// AllowUnknown makes reaching the filesystem root yield None instead of
	// a ProjectRootNotFound error.
	AllowUnknown bool
}

// NewDetector creates a Detector anchored at dir
func NewDetector(anchor string, allowUnknown bool) *Detector {
	return &Detector{Anchor: anchor, AllowUnknown: allowUnknown}
}

// Detect walks from the anchor to the filesystem root. The first level with a
// marker decides the outcome; unsupported platforms fail immediately.
func (d *Detector) Detect() (Detection, error) {
	anchor, err := filepath.Abs(d.Anchor)
	if err != nil {
		return Detection{}, err
	}

	dir := anchor
	for {
		for _, m := range markers {
			if !isFile(filepath.Join(dir, m.path)) {
				continue
			}
			if !m.supported {
				return Detection{}, apperror.UnsupportedPlatform(m.kind.String())
			}
			return Detection{Kind: m.kind, ProjectRoot: dir}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if d.AllowUnknown {
		return Detection{Kind: None}, nil
	}
	return Detection{}, apperror.ProjectRootNotFound(anchor)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
