package diagfmt

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"nlib/internal/hooks"
	"nlib/internal/registry"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return cellStyle
		})
}

func formatEntry(entry uintptr) string {
	return fmt.Sprintf("%#x", entry)
}

// FormatRegistryTable печатает дескрипторы реестра таблицей.
func FormatRegistryTable(w io.Writer, descs []registry.Descriptor) error {
	t := newTable("#", "Function", "Library", "Signature", "Entry")
	for _, d := range descs {
		t.Row(strconv.Itoa(int(d.Index)), d.Name, d.Library, d.Signature(), formatEntry(d.Entry))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// DescriptorJSON is the JSON shape of a registry descriptor.
type DescriptorJSON struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Library string   `json:"library"`
	Return  string   `json:"return"`
	Args    []string `json:"args"`
	Entry   string   `json:"entry"`
}

func descriptorJSON(d registry.Descriptor) DescriptorJSON {
	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = a.String()
	}
	return DescriptorJSON{
		Index:   int(d.Index),
		Name:    d.Name,
		Library: d.Library,
		Return:  d.Return.String(),
		Args:    args,
		Entry:   formatEntry(d.Entry),
	}
}

func FormatRegistryJSON(w io.Writer, descs []registry.Descriptor) error {
	out := make([]DescriptorJSON, len(descs))
	for i, d := range descs {
		out[i] = descriptorJSON(d)
	}
	return encodeJSON(w, out)
}

// HookJSON is one address binding.
type HookJSON struct {
	Address  string         `json:"address"`
	Function DescriptorJSON `json:"function"`
}

// FormatHooksTable печатает привязки адресов в порядке возрастания адреса.
func FormatHooksTable(w io.Writer, tab *hooks.Table) error {
	t := newTable("Address", "Function", "Library", "Signature")
	for _, e := range tab.Entries() {
		d, ok := tab.Get(e.Address)
		if !ok {
			continue
		}
		t.Row(hooks.FormatAddress(e.Address), d.Name, d.Library, d.Signature())
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func FormatHooksJSON(w io.Writer, tab *hooks.Table) error {
	out := make([]HookJSON, 0, tab.Len())
	for _, e := range tab.Entries() {
		if d, ok := tab.Get(e.Address); ok {
			out = append(out, HookJSON{Address: hooks.FormatAddress(e.Address), Function: descriptorJSON(d)})
		}
	}
	return encodeJSON(w, out)
}
