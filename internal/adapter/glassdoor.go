package adapter

import (
	"net/url"

	"applypilot/internal/applyflow"
	"applypilot/internal/domain"
)

// GlassdoorProfile targets the Easy Apply flow. Postings that only offer an
// external apply button never render the easy-apply form root, so they fall
// out of the flow as complex applications rather than erroring.
func GlassdoorProfile() Profile {
	return Profile{
		Platform: domain.PlatformGlassdoor,
		Auth: AuthSpec{
			HomeURL:        "https://www.glassdoor.com/member/home/index.htm",
			LandingURLHint: "member",
			LoginURL:       "https://www.glassdoor.com/profile/login_input.htm",
			UserField:      "#modalUserEmail",
			PassField:      "#modalUserPassword",
			SubmitButton:   "button[type='submit']",
			TwoStep:        true,
		},
		Search: SearchSpec{
			BuildURL: func(keyword, location string) string {
				q := url.Values{}
				q.Set("sc.keyword", keyword)
				q.Set("locT", "C")
				q.Set("locKeyword", location)
				return "https://www.glassdoor.com/Job/jobs.htm?" + q.Encode()
			},
			BaseURL:       "https://www.glassdoor.com",
			ResultsMarker: ".react-job-listing",
			Card:          ".react-job-listing",
			TitleSel:      "a.jobLink",
			CompanySel:    ".css-1nqghjk",
			LinkSel:       "a.jobLink",
		},
		Flow: applyflow.Selectors{
			JobHeader:          ".jobDetails",
			ApplyButton:        "button.applyButton",
			EasyApplyButton:    "button.easyApply",
			ContinueButton:     "button.continueButton",
			SubmitButton:       "button.submitButton",
			ConfirmationMarker: ".applicationSubmitted",
			ComplexMarkers:     complexAnswerMarkers,
			ExternalPhrases:    externalApplyPhrases,
		},
		Fields: FieldSelectors{
			FirstName:       "input[name*='name'][id*='irst']",
			LastName:        "input[name*='name'][id*='ast']",
			Email:           "input[type='email']",
			Phone:           "input[type='tel']",
			ResumeUpload:    "input[type='file']",
			TermsCheckboxes: "input[type='checkbox']",
		},
	}
}
