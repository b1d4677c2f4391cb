package infoplist

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const examplePlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>bundleid</key>
	<string>org.halfyak.alfredapp.example-workflow</string>
	<key>createdby</key>
	<string>Half Yak</string>
	<key>name</key>
	<string>Example Name</string>
	<key>readme</key>
	<string></string>
	<key>objects</key>
	<array/>
</dict>
</plist>
`

func writePlist(t *testing.T, dir, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadBasic(t *testing.T) {
	dir := t.TempDir()
	writePlist(t, dir, examplePlist)

	p, err := Read(dir, Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if p.BundleID != "org.halfyak.alfredapp.example-workflow" {
		t.Errorf("BundleID = %q", p.BundleID)
	}
	if p.Name != "Example Name" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.CreatedBy != "Half Yak" {
		t.Errorf("CreatedBy = %q", p.CreatedBy)
	}
	if p.Version != "" {
		t.Errorf("Version = %q, want empty", p.Version)
	}
}

func TestNames(t *testing.T) {
	p := &InfoPlist{BundleID: "x", Name: "Safari History (beta)"}
	if got := p.RepositoryName(); got != "safari-history--beta-" {
		t.Errorf("RepositoryName = %q", got)
	}
	if got := p.ExportName(); got != "Safari_History__beta_.alfredworkflow" {
		t.Errorf("ExportName = %q", got)
	}
}

func TestDescribe(t *testing.T) {
	p := &InfoPlist{BundleID: "b", Name: "n", Version: "1.2.3"}
	want := `{"bundleid":"b","name":"n","version":"1.2.3"}`
	if got := p.Describe(); got != want {
		t.Errorf("Describe = %s, want %s", got, want)
	}
}

func TestReadNoDir(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "installation"), Options{})
	if !errors.Is(err, ErrNoDir) {
		t.Fatalf("expected ErrNoDir, got %v", err)
	}
	if IsTolerable(err) {
		t.Error("a missing directory is not tolerable")
	}
}

func TestReadNoFile(t *testing.T) {
	_, err := Read(t.TempDir(), Options{})
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if !IsTolerable(err) {
		t.Error("a missing info.plist is tolerable")
	}
}

func TestReadCorrupt(t *testing.T) {
	dir := t.TempDir()
	writePlist(t, dir, "<?xml version=\"1.0\"?>\n<plist><dict><key>name</key>")
	_, err := Read(dir, Options{})
	var ce *CorruptError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CorruptError, got %v", err)
	}
	if !IsTolerable(err) {
		t.Error("corrupt info.plist is tolerable")
	}
}

func TestReadMissingField(t *testing.T) {
	dir := t.TempDir()
	writePlist(t, dir, strings.Replace(examplePlist, "<key>name</key>", "<key>title</key>", 1))
	_, err := Read(dir, Options{})
	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if mf.Field != "name" {
		t.Errorf("Field = %q", mf.Field)
	}
}

func TestReadRequireSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not reliable on Windows")
	}
	installed := t.TempDir()
	writePlist(t, installed, examplePlist)

	_, err := Read(installed, Options{RequireSymlink: true})
	var ns *NotSymlinkError
	if !errors.As(err, &ns) {
		t.Fatalf("expected NotSymlinkError, got %v", err)
	}

	link := filepath.Join(t.TempDir(), "installation")
	if err := os.Symlink(installed, link); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(link, Options{RequireSymlink: true}); err != nil {
		t.Errorf("Read through symlink: %v", err)
	}
}

func TestVerifyBundleID(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	writePlist(t, a, examplePlist)
	writePlist(t, b, strings.Replace(examplePlist, "example-workflow", "other", 1))

	this, err := Read(a, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := VerifyBundleID(a, this, a); err != nil {
		t.Errorf("same bundleid: %v", err)
	}
	_, err = VerifyBundleID(a, this, b)
	if err == nil || !strings.Contains(err.Error(), "!=") {
		t.Errorf("expected mismatch, got %v", err)
	}
}

func TestBumpVersion(t *testing.T) {
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"1.0.0", "1.0.1", false},
		{"2.3.9", "2.3.10", false},
		{"7", "8", false},
		{"", "1.0.1", false},
		{"1.0.beta", "", true},
	}
	for _, tt := range tests {
		got, err := BumpVersion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("BumpVersion(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("BumpVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUpversion(t *testing.T) {
	dir := t.TempDir()
	path := writePlist(t, dir, strings.Replace(examplePlist,
		"<key>name</key>", "<key>version</key>\n\t<string>1.4.2</string>\n\t<key>name</key>", 1))

	v, err := Upversion(path)
	if err != nil {
		t.Fatalf("Upversion: %v", err)
	}
	if v != "1.4.3" {
		t.Errorf("version = %q", v)
	}
	p, err := Read(dir, Options{})
	if err != nil {
		t.Fatalf("re-reading: %v", err)
	}
	if p.Version != "1.4.3" || p.BundleID != "org.halfyak.alfredapp.example-workflow" {
		t.Errorf("after upversion: %+v", p)
	}
}

func TestUpversionCorrupt(t *testing.T) {
	path := writePlist(t, t.TempDir(), "<plist><dict>")
	if _, err := Upversion(path); err == nil {
		t.Fatal("expected error")
	}
}

const unsortedPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>name</key>
	<string>Example &amp; Co</string>
	<key>uidata</key>
	<dict>
		<key>version</key>
		<string>9.9.9</string>
	</dict>
	<key>readme</key>
	<string></string>
	<key>version</key>
	<string>%s</string>
	<key>bundleid</key>
	<string>org.halfyak.alfredapp.example-workflow</string>
</dict>
</plist>
`

func TestUpversionKeepsOtherBytes(t *testing.T) {
	dir := t.TempDir()
	path := writePlist(t, dir, strings.Replace(unsortedPlist, "%s", "2.0.9", 1))

	v, err := Upversion(path)
	if err != nil {
		t.Fatalf("Upversion: %v", err)
	}
	if v != "2.0.10" {
		t.Errorf("version = %q", v)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.Replace(unsortedPlist, "%s", "2.0.10", 1); string(got) != want {
		t.Errorf("file rewritten beyond the version:\n%s", got)
	}
}

func TestUpversionEmptyStringElement(t *testing.T) {
	dir := t.TempDir()
	path := writePlist(t, dir, strings.Replace(unsortedPlist, "<string>%s</string>", "<string/>", 1))

	v, err := Upversion(path)
	if err != nil {
		t.Fatalf("Upversion: %v", err)
	}
	if v != "1.0.1" {
		t.Errorf("version = %q", v)
	}
	got, _ := os.ReadFile(path)
	if want := strings.Replace(unsortedPlist, "%s", "1.0.1", 1); string(got) != want {
		t.Errorf("unexpected file:\n%s", got)
	}
}

func TestUpversionAddsMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := writePlist(t, dir, examplePlist)

	v, err := Upversion(path)
	if err != nil {
		t.Fatalf("Upversion: %v", err)
	}
	if v != "1.0.1" {
		t.Errorf("version = %q", v)
	}
	got, _ := os.ReadFile(path)
	want := strings.Replace(examplePlist, "</dict>\n</plist>",
		"\t<key>version</key>\n\t<string>1.0.1</string>\n</dict>\n</plist>", 1)
	if string(got) != want {
		t.Errorf("unexpected file:\n%s", got)
	}
	p, err := Read(dir, Options{})
	if err != nil || p.Version != "1.0.1" {
		t.Errorf("re-read = %+v, %v", p, err)
	}
}
