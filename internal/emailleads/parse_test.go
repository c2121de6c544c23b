package emailleads

import (
	"testing"
	"time"

	"applypilot/internal/domain"
)

const alertHTML = `<html><body>
<table>
  <tr>
    <td><a href="https://www.linkedin.com/comm/jobs/view/12345/?trk=logo"><img src="logo.png"></a></td>
    <td>
      <a href="https://www.linkedin.com/comm/jobs/view/12345/?trk=title">Junior Software Engineer Easy Apply</a>
      <p>Acme Corp · Boston, MA</p>
    </td>
  </tr>
</table>
<table>
  <tr>
    <td>
      <a href="https://tracking.example.com/click?url=https%3A%2F%2Fwww.linkedin.com%2Fjobs%2Fview%2F67890%2F">Embedded Engineer</a>
      <p>Widget Co · Remote</p>
    </td>
  </tr>
</table>
<a href="https://www.linkedin.com/school/somewhere">School of Hard Knocks</a>
<a href="https://example.com/jobs/view/999">Not LinkedIn</a>
</body></html>`

func TestParseAlertHTML_MergesAnchorsByPosting(t *testing.T) {
	received := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	postings := ParseAlertHTML(alertHTML, received)

	if len(postings) != 2 {
		t.Fatalf("got %d postings, want 2: %+v", len(postings), postings)
	}

	first := postings[0]
	if first.Title != "Junior Software Engineer" {
		t.Errorf("title = %q, junk suffix not stripped", first.Title)
	}
	if first.Company != "Acme Corp" || first.Location != "Boston, MA" {
		t.Errorf("company/location = %q/%q", first.Company, first.Location)
	}
	if first.Source != domain.PlatformEmail {
		t.Errorf("source = %v", first.Source)
	}
	if !first.DiscoveredAt.Equal(received) {
		t.Errorf("discovered at = %v", first.DiscoveredAt)
	}

	second := postings[1]
	if second.URL != "https://www.linkedin.com/jobs/view/67890/" {
		t.Errorf("tracking wrapper not unwrapped: %q", second.URL)
	}
	if second.Title != "Embedded Engineer" {
		t.Errorf("title = %q", second.Title)
	}
}

func TestParseAlertHTML_EmptyAndPlainText(t *testing.T) {
	if got := ParseAlertHTML("", time.Now()); len(got) != 0 {
		t.Fatalf("empty body produced %d postings", len(got))
	}
	if got := ParseAlertHTML("plain text, no links", time.Now()); len(got) != 0 {
		t.Fatalf("plain text produced %d postings", len(got))
	}
}

func TestHTMLFromRaw_MultipartAlternative(t *testing.T) {
	raw := []byte("From: alerts@example.test\r\n" +
		"Subject: new jobs\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=BOUNDARY\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"see jobs online\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<html><body><a href=\"https://www.linkedin.com/jobs/view/1/\">Engineer</a></body></html>\r\n" +
		"--BOUNDARY--\r\n")

	htmlBody := htmlFromRaw(raw)
	if htmlBody == "" {
		t.Fatal("html part not extracted")
	}
	postings := ParseAlertHTML(htmlBody, time.Now())
	if len(postings) != 1 || postings[0].Title != "Engineer" {
		t.Fatalf("postings = %+v", postings)
	}
}
