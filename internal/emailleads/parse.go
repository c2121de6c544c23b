package emailleads

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"applypilot/internal/domain"
)

var reJobID = regexp.MustCompile(`/jobs/view/(\d+)`)

// ParseAlertHTML extracts job postings from a LinkedIn job-alert email body.
// A single card carries several anchors to the same posting (logo, title,
// footer), so anchors are merged by posting id before emitting.
func ParseAlertHTML(htmlBody string, received time.Time) []domain.JobPosting {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	type lead struct {
		posting domain.JobPosting
	}
	byID := map[string]*lead{}
	var order []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		jobURL := unwrapRedirect(href)
		if jobURL == "" {
			return
		}
		lu := strings.ToLower(jobURL)
		if !strings.Contains(lu, "linkedin.com") || !strings.Contains(lu, "/jobs/view/") {
			return
		}
		key := jobURL
		if m := reJobID.FindStringSubmatch(jobURL); len(m) == 2 {
			key = "linkedin:" + m[1]
		}

		l, ok := byID[key]
		if !ok {
			l = &lead{posting: domain.JobPosting{
				URL:          jobURL,
				Source:       domain.PlatformEmail,
				DiscoveredAt: received,
			}}
			byID[key] = l
			order = append(order, key)
		}

		if t := alertTitle(a.Text()); betterTitle(t, l.posting.Title) {
			l.posting.Title = t
		}

		// Company · Location lives in a <p> within the surrounding card.
		card := a.Closest("table")
		if card.Length() == 0 {
			card = a.Closest("tr")
		}
		if card.Length() == 0 {
			card = a.Parent()
		}
		card.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			t := cleanText(p.Text())
			if l.posting.Company == "" && strings.Contains(t, " · ") {
				parts := strings.SplitN(t, " · ", 2)
				l.posting.Company = strings.TrimSpace(parts[0])
				l.posting.Location = strings.TrimSpace(parts[1])
				return false
			}
			return true
		})
	})

	out := make([]domain.JobPosting, 0, len(byID))
	for _, key := range order {
		p := byID[key].posting
		if p.Title == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// unwrapRedirect resolves tracking wrappers down to the real posting URL.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if raw := u.Query().Get("url"); raw != "" {
		if uu, err := url.Parse(raw); err == nil && uu.Host != "" {
			return uu.String()
		}
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}

// alertTitle cleans anchor text into a plausible job title, or returns "".
func alertTitle(s string) string {
	s = cleanText(s)
	for _, junk := range []string{"Actively recruiting", "Easy Apply", "Promoted"} {
		s = strings.TrimSpace(strings.ReplaceAll(s, junk, ""))
	}
	low := strings.ToLower(s)
	for _, bad := range []string{"alumni", "connections", "applicants", "school"} {
		if strings.Contains(low, bad) {
			return ""
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

func betterTitle(candidate, current string) bool {
	c := strings.TrimSpace(candidate)
	return c != "" && len(c) > len(strings.TrimSpace(current))
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// htmlFromRaw pulls the HTML part out of a raw RFC822 message. Plaintext-only
// messages yield "" and are skipped upstream; alert emails are always HTML.
func htmlFromRaw(raw []byte) string {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	body, _ := io.ReadAll(io.LimitReader(msg.Body, 6<<20))
	_, htmlPart := mimeTextParts(msg.Header.Get("Content-Type"),
		msg.Header.Get("Content-Transfer-Encoding"), body)
	return htmlPart
}

func mimeTextParts(contentType, cte string, body []byte) (plain, htmlPart string) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(decodeTransfer(body, cte)), ""
	}
	mediaType = strings.ToLower(mediaType)

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return string(decodeTransfer(body, cte)), ""
		}
		mr := multipart.NewReader(bytes.NewReader(body), boundary)
		for {
			part, err := mr.NextPart()
			if err != nil {
				break
			}
			b, _ := io.ReadAll(io.LimitReader(part, 6<<20))
			b = decodeTransfer(b, part.Header.Get("Content-Transfer-Encoding"))

			pl, ht := mimeTextParts(part.Header.Get("Content-Type"),
				"", b)
			if len(pl) > len(plain) {
				plain = pl
			}
			if len(ht) > len(htmlPart) {
				htmlPart = ht
			}
		}
		return plain, htmlPart
	}

	s := string(decodeTransfer(body, cte))
	if strings.HasPrefix(mediaType, "text/html") {
		return "", s
	}
	return s, ""
}

func decodeTransfer(b []byte, cte string) []byte {
	switch strings.ToLower(strings.TrimSpace(cte)) {
	case "base64":
		out, _ := io.ReadAll(io.LimitReader(
			base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b)), 6<<20))
		return out
	case "quoted-printable":
		out, _ := io.ReadAll(io.LimitReader(
			quotedprintable.NewReader(bytes.NewReader(b)), 6<<20))
		return out
	default:
		return b
	}
}
