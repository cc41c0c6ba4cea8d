package extract

import (
	"strings"
	"testing"
)

var pressBody = strings.Repeat("Acme Corp announces a new telehealth platform for patients across Texas. ", 3)

func TestFromHTML_StripsNonContentElements(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>Press Release</title><style>.x{color:red}</style></head>
      <body>
        <header>Site header</header>
        <nav>Nav should be ignored</nav>
        <article>
          <h1>Acme launches CarePath</h1>
          <p>` + pressBody + `</p>
          <script>var tracking = 1;</script>
          <aside>Related stories</aside>
        </article>
        <footer>Footer text</footer>
      </body>
    </html>`

	doc := FromHTML([]byte(html))
	if doc.Title != "Press Release" {
		t.Fatalf("expected title, got %q", doc.Title)
	}
	if doc.Source != "article" {
		t.Fatalf("expected article source, got %q", doc.Source)
	}
	for _, unwanted := range []string{"Site header", "Nav should be ignored", "tracking", "Related stories", "Footer text"} {
		if strings.Contains(doc.Text, unwanted) {
			t.Fatalf("did not expect %q in %q", unwanted, doc.Text)
		}
	}
	if !strings.Contains(doc.Text, "Acme launches CarePath") {
		t.Fatalf("expected heading in text: %q", doc.Text)
	}
}

func TestFromHTML_LongestCandidateWins(t *testing.T) {
	html := `<html><body>
      <article><p>Short teaser that is not the story itself.</p></article>
      <div class="entry-content"><p>` + pressBody + pressBody + `</p></div>
    </body></html>`

	doc := FromHTML([]byte(html))
	if doc.Source != ".entry-content" {
		t.Fatalf("expected .entry-content to win, got %q", doc.Source)
	}
	if strings.Contains(doc.Text, "Short teaser") {
		t.Fatalf("shorter candidate leaked into text")
	}
}

func TestFromHTML_RoleMainAndClassTokens(t *testing.T) {
	html := `<html><body><div role="main" class="wrapper"><p>` + pressBody + `</p></div></body></html>`
	doc := FromHTML([]byte(html))
	if doc.Source != `[role="main"]` {
		t.Fatalf("expected role=main candidate, got %q", doc.Source)
	}

	html = `<html><body><div class="post-content highlighted"><p>` + pressBody + `</p></div></body></html>`
	doc = FromHTML([]byte(html))
	if doc.Source != ".post-content" {
		t.Fatalf("expected class token match, got %q", doc.Source)
	}
}

func TestFromHTML_FallbackToBody(t *testing.T) {
	html := `<!doctype html>
    <html>
      <head><title>No Main</title></head>
      <body>
        <main><p>Too short.</p></main>
        <h2>Body Heading</h2>
        <p>` + pressBody + `</p>
      </body>
    </html>`

	doc := FromHTML([]byte(html))
	if doc.Source != "body" {
		t.Fatalf("expected body fallback, got %q", doc.Source)
	}
	if !strings.Contains(doc.Text, "Body Heading") || !strings.Contains(doc.Text, "Too short.") {
		t.Fatalf("expected whole body text, got %q", doc.Text)
	}
}

func TestFromHTML_SkipsConsentBanner(t *testing.T) {
	html := `<html><body><div id="cookie-banner">Accept all cookies</div><article><p>` + pressBody + `</p></article></body></html>`
	doc := FromHTML([]byte(html))
	if strings.Contains(doc.Text, "Accept all cookies") {
		t.Fatalf("consent banner leaked: %q", doc.Text)
	}
}

func TestFromHTML_NormalizesWhitespace(t *testing.T) {
	html := "<html><body><article><p>Acme    Corp\t\tannounces</p>\n\n\n<p>" + pressBody + "</p></article></body></html>"
	doc := FromHTML([]byte(html))
	if strings.Contains(doc.Text, "  ") || strings.Contains(doc.Text, "\n\n") || strings.Contains(doc.Text, "\t") {
		t.Fatalf("whitespace not normalized: %q", doc.Text)
	}
	if !strings.HasPrefix(doc.Text, "Acme Corp announces") {
		t.Fatalf("unexpected text start: %q", doc.Text)
	}
}

func TestFromHTML_ConsentClassOnPageRoot(t *testing.T) {
	html := `<html class="gdpr-enabled"><body class="home cookies-not-set"><main class="consent-given"><article><p>` +
		pressBody + `</p></article></main></body></html>`
	doc := FromHTML([]byte(html))
	if doc.Source != "article" {
		t.Fatalf("expected article source, got %q", doc.Source)
	}
	if !strings.Contains(doc.Text, "Acme Corp announces") {
		t.Fatalf("content lost to root consent class: %q", doc.Text)
	}

	html = `<html><body class="cookies-not-set"><h2>Body Heading</h2><p>` + pressBody + `</p></body></html>`
	doc = FromHTML([]byte(html))
	if doc.Source != "body" || !strings.Contains(doc.Text, "Body Heading") {
		t.Fatalf("body fallback should survive consent class: source=%q text=%q", doc.Source, doc.Text)
	}
}
