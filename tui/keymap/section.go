package keymap

import "github.com/charmbracelet/bubbles/key"

// Section names used by the help view.
const (
	SectionNavigation = "Navigation"
	SectionPresets    = "Presets"
	SectionDraft      = "Draft"
	SectionFiles      = "Files"
	SectionView       = "View"
	SectionSystem     = "System"
)

// Section is a named group of bindings rendered as one block of help.
type Section struct {
	Name     string
	Bindings []key.Binding
}

// SectionedKeyMap is implemented by keymaps that group their bindings.
type SectionedKeyMap interface {
	Sections() []Section
}

// NewSection creates a section with a custom name.
func NewSection(name string, bindings ...key.Binding) Section {
	return Section{Name: name, Bindings: bindings}
}

// NavigationSection creates a Navigation section.
func NavigationSection(bindings ...key.Binding) Section {
	return Section{Name: SectionNavigation, Bindings: bindings}
}

// ViewSection creates a View section.
func ViewSection(bindings ...key.Binding) Section {
	return Section{Name: SectionView, Bindings: bindings}
}

// SystemSection creates a System section. Every keymap should include one.
func SystemSection(bindings ...key.Binding) Section {
	return Section{Name: SectionSystem, Bindings: bindings}
}

// FilterEnabled returns only the enabled bindings.
func (s Section) FilterEnabled() []key.Binding {
	var result []key.Binding
	for _, b := range s.Bindings {
		if b.Enabled() {
			result = append(result, b)
		}
	}
	return result
}

// IsEmpty reports whether the section has no enabled bindings.
func (s Section) IsEmpty() bool {
	return len(s.FilterEnabled()) == 0
}

// With returns a copy of the section with bindings appended.
func (s Section) With(bindings ...key.Binding) Section {
	combined := make([]key.Binding, 0, len(s.Bindings)+len(bindings))
	combined = append(combined, s.Bindings...)
	combined = append(combined, bindings...)
	return Section{Name: s.Name, Bindings: combined}
}
