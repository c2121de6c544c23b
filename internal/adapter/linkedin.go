package adapter

import (
	"net/url"

	"applypilot/internal/applyflow"
	"applypilot/internal/domain"
)

// complexAnswerMarkers and externalApplyPhrases are shared across platforms:
// open-ended questions and off-site redirects end the attempt the same way
// everywhere.
var (
	complexAnswerMarkers = []string{"textarea"}

	externalApplyPhrases = []string{
		"complete application on company website",
		"external site",
		"company's website",
		"continue on company site",
	}
)

// LinkedInProfile targets the Easy Apply flow. The f_E filter narrows results
// to internship and entry level, sorted newest first.
func LinkedInProfile() Profile {
	return Profile{
		Platform: domain.PlatformLinkedIn,
		Auth: AuthSpec{
			HomeURL:        "https://www.linkedin.com/feed/",
			LandingURLHint: "feed",
			LoginURL:       "https://www.linkedin.com/login",
			UserField:      "#username",
			PassField:      "#password",
			SubmitButton:   "button[type='submit']",
		},
		Search: SearchSpec{
			BuildURL: func(keyword, location string) string {
				q := url.Values{}
				q.Set("keywords", keyword)
				q.Set("location", location)
				q.Set("f_E", "1,2")
				q.Set("sortBy", "DD")
				return "https://www.linkedin.com/jobs/search/?" + q.Encode()
			},
			BaseURL:       "https://www.linkedin.com",
			ResultsMarker: ".jobs-search__results-list",
			Card:          ".job-search-card",
			TitleSel:      ".job-search-card__title",
			CompanySel:    ".job-search-card__subtitle",
			LinkSel:       "a.job-search-card__link",
		},
		Flow: applyflow.Selectors{
			JobHeader:          ".jobs-unified-top-card",
			AppliedMarker:      ".jobs-s-apply__applied-status",
			ApplyButton:        ".jobs-apply-button",
			FormRoot:           ".jobs-easy-apply-content",
			ContinueButton:     "button[aria-label='Continue to next step']",
			SubmitButton:       "button[aria-label='Submit application']",
			ConfirmationMarker: ".artdeco-modal__content",
			ComplexMarkers:     complexAnswerMarkers,
			ExternalPhrases:    externalApplyPhrases,
		},
		Fields: FieldSelectors{
			Phone:            "input[name='phoneNumber']",
			ResumeUpload:     "input[type='file']",
			ExperienceSelect: "select[name='urn:li:form:workExperienceFormElement']",
			EducationSelect:  "select[name*='education']",
			YesRadios:        "input[type='radio'][value='yes']",
		},
	}
}
