package adapter

import (
	"net/url"

	"applypilot/internal/applyflow"
	"applypilot/internal/domain"
)

// IndeedProfile targets the Indeed Apply flow. Login is two-screen: email
// first, then password. Search is constrained to postings from the last week.
func IndeedProfile() Profile {
	return Profile{
		Platform: domain.PlatformIndeed,
		Auth: AuthSpec{
			HomeURL:        "https://www.indeed.com/",
			LoggedInMarker: "[data-gnav-element-name='AccountMenu']",
			LoginURL:       "https://secure.indeed.com/account/login",
			UserField:      "#ifl-InputFormField-3",
			PassField:      "#ifl-InputFormField-7",
			SubmitButton:   "button[type='submit']",
			TwoStep:        true,
		},
		Search: SearchSpec{
			BuildURL: func(keyword, location string) string {
				q := url.Values{}
				q.Set("q", keyword)
				q.Set("l", location)
				q.Set("fromage", "7")
				q.Set("sort", "date")
				return "https://www.indeed.com/jobs?" + q.Encode()
			},
			BaseURL:       "https://www.indeed.com",
			ResultsMarker: ".jobsearch-ResultsList",
			Card:          ".job_seen_beacon",
			TitleSel:      "h2.jobTitle",
			CompanySel:    "span.companyName",
			LinkSel:       "h2.jobTitle a",
		},
		Flow: applyflow.Selectors{
			JobHeader:      ".jobsearch-JobInfoHeader",
			AppliedMarker:  ".jobsearch-ResponseIndicators",
			ApplyButton:    ".jobsearch-IndeedApplyButton",
			FormRoot:       "button[data-testid='continueButton'], button.ia-continueButton, button[data-testid='submitButton'], button.ia-SubmitButton",
			ContinueButton: "button[data-testid='continueButton'], button.ia-continueButton",
			SubmitButton:   "button[data-testid='submitButton'], button.ia-SubmitButton",
			ConfirmationURLHints: []string{
				"applied", "thank", "success",
			},
			ComplexMarkers:  complexAnswerMarkers,
			ExternalPhrases: externalApplyPhrases,
		},
		Fields: FieldSelectors{
			FirstName:        "input[name*='name'][placeholder*='irst']",
			LastName:         "input[name*='name'][placeholder*='ast']",
			Email:            "input[type='email']",
			Phone:            "input[type='tel']",
			ResumeUpload:     "input[type='file']",
			ExperienceSelect: "select[name*='experience']",
			YesRadios:        "input[type='radio'][value='yes']",
		},
	}
}
