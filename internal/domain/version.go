// Package domain contains the core domain types of the weather API.
// Пакет domain содержит основные доменные типы weather API.
package domain

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
)

// ErrInvalidVersion is returned when a version token does not parse.
// ErrInvalidVersion возвращается, когда токен версии не разбирается.
var ErrInvalidVersion = errors.New("invalid api version")

// Version identifies an API revision as major[.minor].
// Version идентифицирует ревизию API в виде major[.minor].
//
// Values are comparable with == and ordered by (Major, Minor).
// Значения сравнимы через == и упорядочены по (Major, Minor).
type Version struct {
	Major int `json:"major"` // Major revision / Мажорная ревизия
	Minor int `json:"minor"` // Minor revision / Минорная ревизия
}

// NewVersion creates a Version from its parts.
// NewVersion создаёт Version из частей.
func NewVersion(major, minor int) Version {
	return Version{Major: major, Minor: minor}
}

// ParseVersion parses "1", "1.0" or "2.5". Signs, empty parts and more than
// two components are rejected.
// ParseVersion разбирает "1", "1.0" или "2.5". Знаки, пустые части и более
// двух компонентов отклоняются.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if s == "" || len(parts) > 2 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	nums := [2]int{}
	for i, part := range parts {
		n, err := parseComponent(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1]}, nil
}

func parseComponent(part string) (int, error) {
	if part == "" {
		return 0, ErrInvalidVersion
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return 0, ErrInvalidVersion
		}
	}
	return strconv.Atoi(part)
}

// MustParseVersion is like ParseVersion but panics on error.
// MustParseVersion аналогична ParseVersion, но паникует при ошибке.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns "major" when minor is zero and "major.minor" otherwise.
// String возвращает "major" при нулевом minor и "major.minor" в остальных случаях.
func (v Version) String() string {
	if v.Minor == 0 {
		return strconv.Itoa(v.Major)
	}
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}

// GroupName returns the documentation group name, e.g. "v1" or "v1.5".
// GroupName возвращает имя группы документации, например "v1" или "v1.5".
func (v Version) GroupName() string {
	return "v" + v.String()
}

// Compare returns -1, 0 or +1 ordering a before, equal to or after b.
// Compare возвращает -1, 0 или +1, если a меньше, равна или больше b.
func Compare(a, b Version) int {
	switch {
	case a.Major != b.Major:
		if a.Major < b.Major {
			return -1
		}
		return 1
	case a.Minor < b.Minor:
		return -1
	case a.Minor > b.Minor:
		return 1
	default:
		return 0
	}
}

// Less reports whether v orders before other.
// Less сообщает, предшествует ли v версии other.
func (v Version) Less(other Version) bool {
	return Compare(v, other) < 0
}

// VersionSet is the immutable collection of versions a route group supports.
// VersionSet — неизменяемый набор версий, поддерживаемых группой маршрутов.
//
// A version may be both supported and deprecated: it keeps working while
// clients are warned about its removal.
// Версия может быть одновременно поддерживаемой и устаревшей: она продолжает
// работать, а клиенты получают предупреждение о её удалении.
type VersionSet struct {
	supported  []Version
	deprecated []Version
	def        Version
}

// NewVersionSet builds a VersionSet. It fails with a configuration error when
// no versions are supported or the default is not among them.
// NewVersionSet строит VersionSet. Возвращает ошибку конфигурации, если
// поддерживаемых версий нет или версия по умолчанию не входит в их число.
func NewVersionSet(supported, deprecated []Version, def Version) (*VersionSet, error) {
	if len(supported) == 0 {
		return nil, apperror.Configuration("at least one supported API version is required")
	}

	set := &VersionSet{
		supported:  sortedUnique(supported),
		deprecated: sortedUnique(deprecated),
		def:        def,
	}

	if !set.IsSupported(def) {
		return nil, apperror.Configuration("default API version %s is not in the supported set [%s]",
			def, strings.Join(set.SupportedStrings(), ", "))
	}

	return set, nil
}

func sortedUnique(versions []Version) []Version {
	out := slices.Clone(versions)
	slices.SortFunc(out, Compare)
	return slices.Compact(out)
}

// IsSupported reports whether v is in the supported set.
// IsSupported сообщает, входит ли v в набор поддерживаемых версий.
func (s *VersionSet) IsSupported(v Version) bool {
	_, found := slices.BinarySearchFunc(s.supported, v, Compare)
	return found
}

// IsDeprecated reports whether v is flagged deprecated.
// IsDeprecated сообщает, помечена ли v как устаревшая.
func (s *VersionSet) IsDeprecated(v Version) bool {
	_, found := slices.BinarySearchFunc(s.deprecated, v, Compare)
	return found
}

// Default returns the default version.
// Default возвращает версию по умолчанию.
func (s *VersionSet) Default() Version {
	return s.def
}

// Latest returns the highest supported version.
// Latest возвращает наибольшую поддерживаемую версию.
func (s *VersionSet) Latest() Version {
	return s.supported[len(s.supported)-1]
}

// Supported returns the supported versions in ascending order.
// Supported возвращает поддерживаемые версии по возрастанию.
func (s *VersionSet) Supported() []Version {
	return slices.Clone(s.supported)
}

// Deprecated returns the deprecated versions in ascending order.
// Deprecated возвращает устаревшие версии по возрастанию.
func (s *VersionSet) Deprecated() []Version {
	return slices.Clone(s.deprecated)
}

// SupportedStrings returns the supported versions as strings, e.g. ["1", "2"].
// SupportedStrings возвращает поддерживаемые версии строками, например ["1", "2"].
func (s *VersionSet) SupportedStrings() []string {
	return versionStrings(s.supported)
}

// DeprecatedStrings returns the deprecated versions as strings.
// DeprecatedStrings возвращает устаревшие версии строками.
func (s *VersionSet) DeprecatedStrings() []string {
	return versionStrings(s.deprecated)
}

func versionStrings(versions []Version) []string {
	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = v.String()
	}
	return out
}
