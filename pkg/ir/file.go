package ir

import (
	"encoding/json"
	"fmt"
)

// FileKind is the discriminant of a ParsedFile.
type FileKind string

const (
	// KindModule is a TypeScript or JavaScript module
	KindModule FileKind = "module"
	// KindComponent is a Svelte single-file component
	KindComponent FileKind = "component"
)

// FileInfo holds the fields shared by every ParsedFile variant.
type FileInfo struct {
	// FileName is the base name with extension, e.g. "Button.svelte"
	FileName string `json:"fileName"`
	// FilePath is the absolute path of the source file
	FilePath string `json:"filePath"`
}

// ParsedFile is the extracted documentation model of one source file.
// It is either a *ModuleFile or a *ComponentFile; use Match to
// dispatch on the variant.
type ParsedFile interface {
	Kind() FileKind
	Info() FileInfo
	parsedFile()
}

// ModuleFile is the model of a plain TypeScript/JavaScript module.
type ModuleFile struct {
	FileInfo
	Exports []ExportBit `json:"exports"`
}

// ComponentFile is the model of a Svelte component.
type ComponentFile struct {
	FileInfo
	ComponentName string    `json:"componentName"`
	Comment       *Comment  `json:"comment,omitempty"`
	Props         []Bit     `json:"props"`
	Events        []Bit     `json:"events"`
	Slots         []SlotBit `json:"slots"`
	Exports       []Bit     `json:"exports"`
}

func (*ModuleFile) Kind() FileKind { return KindModule }
func (f *ModuleFile) Info() FileInfo { return f.FileInfo }
func (*ModuleFile) parsedFile() {}
func (*ComponentFile) Kind() FileKind { return KindComponent }
func (f *ComponentFile) Info() FileInfo { return f.FileInfo }
func (*ComponentFile) parsedFile() {}

// Match calls module or component depending on the variant of f.
// It panics on a nil file.
func Match[R any](f ParsedFile, module func(*ModuleFile) R, component func(*ComponentFile) R) R {
	switch v := f.(type) {
	case *ModuleFile:
		return module(v)
	case *ComponentFile:
		return component(v)
	default:
		panic(fmt.Sprintf("ir: unexpected ParsedFile %T", f))
	}
}

// DefaultExport returns the default export of the module, if any.
func (f *ModuleFile) DefaultExport() (ExportBit, bool) {
	for _, e := range f.Exports {
		if e.IsDefaultExport {
			return e, true
		}
	}
	return ExportBit{}, false
}

// Slot returns the slot with the given name.
func (f *ComponentFile) Slot(name string) (SlotBit, bool) {
	for _, s := range f.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return SlotBit{}, false
}

// MarshalJSON adds the "type" discriminant and guarantees array fields.
func (f ModuleFile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type FileKind `json:"type"`
		FileInfo
		Exports []ExportBit `json:"exports"`
	}{
		Type:     KindModule,
		FileInfo: f.FileInfo,
		Exports:  nonNil(f.Exports),
	})
}

// MarshalJSON adds the "type" discriminant and guarantees array fields.
func (f ComponentFile) MarshalJSON() ([]byte, error) {
	type wire ComponentFile
	w := wire(f)
	w.Props = nonNil(w.Props)
	w.Events = nonNil(w.Events)
	w.Slots = nonNil(w.Slots)
	w.Exports = nonNil(w.Exports)
	return json.Marshal(struct {
		Type FileKind `json:"type"`
		wire
	}{Type: KindComponent, wire: w})
}

// UnmarshalParsedFile decodes a ParsedFile produced by json.Marshal.
func UnmarshalParsedFile(data []byte) (ParsedFile, error) {
	var head struct {
		Type FileKind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to decode file header: %w", err)
	}

	switch head.Type {
	case KindModule:
		var f ModuleFile
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to decode module file: %w", err)
		}
		return &f, nil
	case KindComponent:
		var f ComponentFile
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to decode component file: %w", err)
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("unknown file type %q", head.Type)
	}
}
