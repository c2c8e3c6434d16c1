// Package profile holds the named risk profiles (category weight tables)
// the allocation engine runs on.
package profile

import (
	"strings"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// Set is an ordered collection of allocation profiles
// ⭐ SSOT: 프로파일 정의는 이 타입으로만 전달
type Set struct {
	Profiles []contracts.AllocationProfile `yaml:"profiles" json:"profiles"`
}

// Get returns the profile with the given name.
// Both sides are compared trimmed and case-insensitively.
func (s *Set) Get(name string) (contracts.AllocationProfile, bool) {
	name = strings.TrimSpace(name)
	for _, p := range s.Profiles {
		if strings.EqualFold(strings.TrimSpace(p.Name), name) {
			return p, true
		}
	}
	return contracts.AllocationProfile{}, false
}

// Names returns profile names in definition order
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// normalize trims profile names and category labels in place.
// 카탈로그 카테고리와 비교되므로 공백 제거 필수
func (s *Set) normalize() {
	for i := range s.Profiles {
		p := &s.Profiles[i]
		p.Name = strings.TrimSpace(p.Name)
		for j := range p.Weights {
			p.Weights[j].Category = strings.TrimSpace(p.Weights[j].Category)
		}
	}
}

// Len returns the number of profiles
func (s *Set) Len() int {
	return len(s.Profiles)
}
