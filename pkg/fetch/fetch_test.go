package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient() *Client {
	return NewClient(NewClientParams{
		Timeout:        5 * time.Second,
		RequestsPerSec: 1000,
		Burst:          100,
	})
}

func TestClient_Get(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
		case "/page":
			gotUA = r.Header.Get("User-Agent")
			_, _ = w.Write([]byte("hello"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := testClient()

	body, err := client.Get(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("body = %q", body)
	}
	if !strings.Contains(gotUA, "Mozilla") {
		t.Errorf("user agent = %q, want a browser agent", gotUA)
	}

	_, err = client.Get(context.Background(), srv.URL+"/private")
	if !errors.Is(err, ErrDisallowed) {
		t.Errorf("error = %v, want ErrDisallowed", err)
	}

	_, err = client.Get(context.Background(), srv.URL+"/missing")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Errorf("error = %v, want status failure", err)
	}
}

func TestClient_Get_MissingRobotsAllows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := testClient().Get(context.Background(), srv.URL+"/anything")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
}

const rscPage = `<html><body>` +
	`<script>self.__next_f.push([1,"nothing interesting"])</script>` +
	`<script>self.__next_f.push([1,"# Elon Musk\n\nElon Musk is a [businessman](https://grokipedia.com/page/Business).\n\n` +
	`![chart](https://cdn.example.com/img.png)\n\nHe founded **SpaceX** per [reports](https://news.example.com/a).\n"])</script>` +
	`</body></html>`

func TestExtractArticleMarkdown(t *testing.T) {
	got := ExtractArticleMarkdown(rscPage)

	if !strings.HasPrefix(got, "# Elon Musk") {
		t.Fatalf("markdown does not start with the title heading: %q", got)
	}
	if strings.Contains(got, "grokipedia.com") || strings.Contains(got, "news.example.com") {
		t.Errorf("links not stripped: %q", got)
	}
	if !strings.Contains(got, "businessman") || !strings.Contains(got, "reports") {
		t.Errorf("link labels lost: %q", got)
	}
	if strings.Contains(got, "![") || strings.Contains(got, "img.png") {
		t.Errorf("image reference survived: %q", got)
	}
	if strings.Contains(got, "nothing interesting") {
		t.Errorf("picked the wrong chunk: %q", got)
	}
}

func TestExtractArticleMarkdown_NoArticleChunk(t *testing.T) {
	html := `<script>self.__next_f.push([1,"just metadata"])</script>`
	if got := ExtractArticleMarkdown(html); got != "" {
		t.Errorf("got %q, want empty for pages without an article chunk", got)
	}
	if got := ExtractArticleMarkdown("<html></html>"); got != "" {
		t.Errorf("got %q, want empty for plain html", got)
	}
}

func TestMarkdownToPlaintext(t *testing.T) {
	in := "# Title\n\nSome **bold** and *italic* and __strong__ and _em_ text.\n[label](https://example.com) done[]"
	got := MarkdownToPlaintext(in)

	want := "Title\n\nSome bold and italic and strong and em text.\nlabel done"
	if got != want {
		t.Errorf("MarkdownToPlaintext() = %q, want %q", got, want)
	}
}

func TestParseWikipediaTitle(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain title", in: "Elon Musk", want: "Elon Musk"},
		{name: "underscored title", in: "Elon_Musk", want: "Elon Musk"},
		{name: "article url", in: "https://en.wikipedia.org/wiki/Elon_Musk", want: "Elon Musk"},
		{name: "escaped url", in: "https://en.wikipedia.org/wiki/COVID-19_lab_leak_theory", want: "COVID-19 lab leak theory"},
		{name: "empty", in: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWikipediaTitle(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWikipediaTitle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseWikipediaTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestInferTopicSlug(t *testing.T) {
	tests := []struct {
		name     string
		grokURL  string
		title    string
		override string
		want     string
	}{
		{
			name:    "from grok url path",
			grokURL: "https://grokipedia.com/page/Elon_Musk",
			title:   "Elon Musk",
			want:    "Elon_Musk",
		},
		{
			name:     "override wins",
			grokURL:  "https://grokipedia.com/page/Elon_Musk",
			title:    "Elon Musk",
			override: "musk pair",
			want:     "musk_pair",
		},
		{
			name:    "falls back to wiki title",
			grokURL: "https://grokipedia.com/",
			title:   "Elon Musk",
			want:    "Elon_Musk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inferTopicSlug(tt.grokURL, tt.title, tt.override)
			if err != nil {
				t.Fatalf("inferTopicSlug() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("inferTopicSlug() = %q, want %q", got, tt.want)
			}
		})
	}
}
