package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-wordpress-import/internal/model"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":  "hello-world",
		"hello-world":  "hello-world",
		"C'est l'été!": "cest-lete",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("%q: want %q, got %q", in, want, got)
		}
	}
}

func TestTranslationFilename(t *testing.T) {
	if got := TranslationFilename("", "hello", "fr", "md"); got != "hello.fr.md" {
		t.Fatalf("default pattern: got %q", got)
	}
	if got := TranslationFilename("{lang}/{path}.{ext}", "hello", "fr", "md"); got != "fr/hello.md" {
		t.Fatalf("custom pattern: got %q", got)
	}
}

func TestWriter_MetadataAndContent(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	meta := model.Metadata{
		Title:  "Hello",
		Slug:   "hello",
		Date:   "2012-09-01 10:00:00",
		Tags:   []string{"news"},
		Status: "publish",
	}
	if err := w.WriteMetadata(filepath.Join("posts", "hello.meta"), meta); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "posts", "hello.meta"))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "title: Hello") || !strings.Contains(s, "wp-status: publish") {
		t.Fatalf("metadata yaml: got %q", s)
	}
	// excerpt is omitempty and was not set
	if strings.Contains(s, "excerpt") {
		t.Fatalf("empty excerpt must be omitted: got %q", s)
	}

	if err := w.WriteContent(filepath.Join("posts", "hello.md"), "# hi"); err != nil {
		t.Fatalf("write content: %v", err)
	}
	b, err = os.ReadFile(w.Abs(filepath.Join("posts", "hello.md")))
	if err != nil || string(b) != "# hi" {
		t.Fatalf("content round trip: %q %v", b, err)
	}
}

func TestWriter_Attachments(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	err := w.WriteAttachments("posts/hello.attachments.json", map[int][]string{
		11: {"/wp-content/uploads/pic.png"},
	})
	if err != nil {
		t.Fatalf("write attachments: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "posts", "hello.attachments.json"))
	if err != nil {
		t.Fatalf("read attachments: %v", err)
	}
	if string(b) != `{"11":["/wp-content/uploads/pic.png"]}` {
		t.Fatalf("attachments json: got %q", b)
	}
}

func TestRenderConf(t *testing.T) {
	ctx := map[string]string{
		"BLOG_AUTHOR":          "Jane",
		"BLOG_TITLE":           "Demo Blog",
		"BLOG_DESCRIPTION":     "Just testing",
		"BLOG_EMAIL":           "jane@demo.example",
		"BASE_URL":             "http://demo.example/",
		"SITE_URL":             "http://demo.example/",
		"DEFAULT_LANG":         "en",
		"TRANSLATIONS":         `{DEFAULT_LANG: ""}`,
		"TRANSLATIONS_PATTERN": DefaultTranslationsPattern,
		"POSTS":                "()",
		"PAGES":                "()",
		"COMPILERS":            "{}",
		"REDIRECTIONS":         "[]",
	}
	out, err := RenderConf(ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `BLOG_TITLE = "Demo Blog"`) {
		t.Fatalf("title missing: %q", out)
	}
	if !strings.Contains(out, "# REDIRECTIONS = []") {
		t.Fatalf("redirections line missing: %q", out)
	}
}

func TestRenderConf_MissingKey(t *testing.T) {
	if _, err := RenderConf(map[string]string{}); err == nil {
		t.Fatalf("want error on missing context key")
	}
}

func TestAdjustConf(t *testing.T) {
	in := "# REDIRECTIONS = []\n# TIMEZONE = 'UTC'\n"
	out := AdjustConf(in, "")
	if strings.Contains(out, "# REDIRECTIONS") {
		t.Fatalf("redirections must be uncommented: got %q", out)
	}
	if !strings.Contains(out, "# TIMEZONE = 'UTC'") {
		t.Fatalf("timezone must stay commented when undetected: got %q", out)
	}
	out = AdjustConf(in, "CST")
	if !strings.Contains(out, "TIMEZONE = 'CST'") || strings.Contains(out, "# TIMEZONE") {
		t.Fatalf("adjust with timezone: got %q", out)
	}
}

func TestFormatTranslations(t *testing.T) {
	if got := FormatTranslations(nil); got != `{DEFAULT_LANG: ""}` {
		t.Fatalf("no extra languages: got %q", got)
	}
	got := FormatTranslations(map[string]struct{}{"fr": {}, "de": {}})
	if !strings.Contains(got, `"de": "./de"`) || !strings.Contains(got, `"fr": "./fr"`) {
		t.Fatalf("extra languages: got %q", got)
	}
	if strings.Index(got, `"de"`) > strings.Index(got, `"fr"`) {
		t.Fatalf("languages must be sorted: got %q", got)
	}
}
