package reader

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mojo-runtime/mojo/internal/descriptor"
	"github.com/mojo-runtime/mojo/internal/model"
)

// Builder assembles the model once its trees have been fetched.
type Builder func(t model.Trees) (*model.Ensemble, error)

// Constructor reads the variant-specific descriptor fields and returns the
// Builder for the model.
type Constructor func(setup *descriptor.Setup, d *model.Descriptor) (Builder, error)

// Key identifies a reader by algorithm name and major format version.
type Key struct {
	Algorithm string
	Major     int
}

var (
	mu       sync.RWMutex
	registry = make(map[Key]Constructor)
)

func init() {
	for _, name := range []string{"Distributed Random Forest", "drf"} {
		Register(name, 0, newBagged)
	}
	for _, name := range []string{"Gradient Boosting Machine", "Gradient Boosting Method", "gbm"} {
		Register(name, 0, newBoosted)
	}
}

// Register adds a constructor for an algorithm and major version,
// replacing any previous one.
func Register(algorithm string, major int, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	registry[Key{Algorithm: algorithm, Major: major}] = ctor
}

// Lookup resolves the constructor for an algorithm and a version string.
func Lookup(algorithm, version string) (Constructor, error) {
	major, minor, err := ParseVersion(version)
	if err != nil {
		return nil, err
	}

	mu.RLock()
	defer mu.RUnlock()
	if ctor, ok := registry[Key{Algorithm: algorithm, Major: major}]; ok {
		return ctor, nil
	}
	uerr := &UnsupportedError{Algorithm: algorithm, Version: version, Major: major, Minor: minor}
	for k := range registry {
		if k.Algorithm == algorithm {
			uerr.Known = true
			break
		}
	}
	return nil, uerr
}

// Algorithms lists the registered algorithm names.
func Algorithms() []string {
	mu.RLock()
	defer mu.RUnlock()
	seen := make(map[string]bool, len(registry))
	names := make([]string, 0, len(registry))
	for k := range registry {
		if !seen[k.Algorithm] {
			seen[k.Algorithm] = true
			names = append(names, k.Algorithm)
		}
	}
	sort.Strings(names)
	return names
}

// ParseVersion splits a decimal format version into major and minor parts:
// major is the integer part and minor the first two decimals. Version 1.00
// is the legacy spelling of 0.00.
func ParseVersion(version string) (major, minor int, err error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return 0, 0, missing(descriptor.KeyVersion)
	}
	v, err := strconv.ParseFloat(version, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) || v > math.MaxInt32 {
		return 0, 0, &descriptor.FormatError{
			Entry:   descriptor.EntryName,
			Reason:  "invalid " + descriptor.KeyVersion,
			Content: version,
		}
	}
	fl := math.Floor(v)
	major = int(fl)
	minor = int(math.Round(100 * (v - fl)))
	if major == 1 && minor == 0 {
		major = 0
	}
	return major, minor, nil
}

// VersionString formats a major/minor pair as it appears in descriptors.
func VersionString(major, minor int) string {
	return fmt.Sprintf("%d.%02d", major, minor)
}
