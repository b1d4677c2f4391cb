package infoplist

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"howett.net/plist"
)

// DefaultVersion is assumed for workflows that do not declare one.
const DefaultVersion = "1.0.0"

// BumpVersion increments the last dot separated component of v, which
// must be a non-negative integer.
func BumpVersion(v string) (string, error) {
	if v == "" {
		v = DefaultVersion
	}
	parts := strings.Split(v, ".")
	last := parts[len(parts)-1]
	n, err := strconv.ParseUint(last, 10, 64)
	if err != nil {
		return "", fmt.Errorf("version %q: last component %q is not a number", v, last)
	}
	parts[len(parts)-1] = strconv.FormatUint(n+1, 10)
	return strings.Join(parts, "."), nil
}

// Upversion bumps the version field of the plist at path in place and
// returns the new version. The file keeps its original plist format. XML
// files only have the version value replaced; every other byte is kept.
func Upversion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var doc map[string]any
	format, err := plist.Unmarshal(data, &doc)
	if err != nil {
		return "", &CorruptError{Path: path, Err: err}
	}
	if doc == nil {
		return "", &CorruptError{Path: path, Err: fmt.Errorf("top level is not a dictionary")}
	}

	current, _ := doc["version"].(string)
	next, err := BumpVersion(current)
	if err != nil {
		return "", err
	}

	var out []byte
	ok := false
	if format == plist.XMLFormat {
		out, ok = setXMLVersion(data, next)
	}
	if !ok {
		doc["version"] = next
		if out, err = plist.MarshalIndent(doc, format, "\t"); err != nil {
			return "", fmt.Errorf("encoding %s: %w", path, err)
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return "", err
	}
	return next, nil
}

// setXMLVersion replaces the value following <key>version</key> in the top
// level dict of an XML plist, or adds the pair before the closing </dict>.
// It reports false when the document has a shape it cannot edit in place.
func setXMLVersion(data []byte, version string) ([]byte, bool) {
	var value bytes.Buffer
	value.WriteString("<string>")
	if err := xml.EscapeText(&value, []byte(version)); err != nil {
		return nil, false
	}
	value.WriteString("</string>")

	d := xml.NewDecoder(bytes.NewReader(data))
	var (
		stack    []string
		key      strings.Builder
		afterKey bool
		start    int64 = -1
	)
	topLevel := func() bool {
		return len(stack) == 2 && stack[0] == "plist" && stack[1] == "dict"
	}
	for {
		off := d.InputOffset()
		tok, err := d.Token()
		if err != nil {
			// Truncated or malformed.
			return nil, false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if topLevel() {
				if afterKey {
					start = off
				} else if t.Name.Local == "key" {
					key.Reset()
				}
			}
			stack = append(stack, t.Name.Local)
		case xml.CharData:
			if len(stack) == 3 && stack[2] == "key" {
				key.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, false
			}
			stack = stack[:len(stack)-1]
			if topLevel() {
				if start >= 0 {
					return splice(data, start, d.InputOffset(), value.Bytes()), true
				}
				afterKey = t.Name.Local == "key" && key.String() == "version"
			}
			if len(stack) == 1 && stack[0] == "plist" && t.Name.Local == "dict" {
				// <dict/> has no closing tag to insert before.
				if afterKey || !bytes.HasPrefix(data[off:], []byte("</")) {
					return nil, false
				}
				pair := "\t<key>version</key>\n\t" + value.String() + "\n"
				return splice(data, off, off, []byte(pair)), true
			}
		}
	}
}

func splice(data []byte, from, to int64, with []byte) []byte {
	out := make([]byte, 0, len(data)-int(to-from)+len(with))
	out = append(out, data[:from]...)
	out = append(out, with...)
	return append(out, data[to:]...)
}
