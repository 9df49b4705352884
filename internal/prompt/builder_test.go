package prompt_test

import (
	"strings"
	"testing"

	"github.com/formdesk/formdesk/internal/prompt"
	"github.com/formdesk/formdesk/pkg/models"
)

func testUser() models.UserDetails {
	return models.UserDetails{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		JobTitle:       "Engineer",
		Component:      "Platform",
		WorkLocation:   "Remote",
		OfficeLocation: "London",
	}
}

const testCatalog = "Integration: IT Service Desk\nDescription: IT requests."

func TestBuildChatPrompt_Deterministic(t *testing.T) {
	a := prompt.BuildChatPrompt(testUser(), testCatalog)
	b := prompt.BuildChatPrompt(testUser(), testCatalog)
	if a != b {
		t.Error("BuildChatPrompt() should be byte-identical for identical inputs")
	}
}

func TestBuildSearchPrompt_Deterministic(t *testing.T) {
	a := prompt.BuildSearchPrompt(testUser(), testCatalog)
	b := prompt.BuildSearchPrompt(testUser(), testCatalog)
	if a != b {
		t.Error("BuildSearchPrompt() should be byte-identical for identical inputs")
	}
}

func TestBuildChatPrompt_ContainsContextAndCatalog(t *testing.T) {
	p := prompt.BuildChatPrompt(testUser(), testCatalog)

	for _, want := range []string{"Ada", "Lovelace", "Engineer", "Platform", "Remote", "London"} {
		if !strings.Contains(p, want) {
			t.Errorf("chat prompt missing profile value %q", want)
		}
	}
	if !strings.Contains(p, testCatalog) {
		t.Error("chat prompt missing catalog description")
	}
	if !strings.Contains(p, "Never format links as markdown") {
		t.Error("chat prompt missing the markdown-link rule")
	}
}

func TestBuildChatPrompt_SectionOrder(t *testing.T) {
	p := prompt.BuildChatPrompt(testUser(), testCatalog)

	rules := strings.Index(p, "Follow these rules")
	profile := strings.Index(p, "Employee profile:")
	cat := strings.Index(p, testCatalog)
	if rules < 0 || profile < 0 || cat < 0 {
		t.Fatal("chat prompt missing a fixed section")
	}
	if !(rules < profile && profile < cat) {
		t.Errorf("sections out of order: rules=%d profile=%d catalog=%d", rules, profile, cat)
	}
}

func TestBuildSearchPrompt_PinsOutputContract(t *testing.T) {
	p := prompt.BuildSearchPrompt(testUser(), testCatalog)

	if !strings.Contains(p, `"url"`) || !strings.Contains(p, `"description"`) {
		t.Error("search prompt missing the {url, description} contract")
	}
	if !strings.Contains(p, "empty array") {
		t.Error("search prompt missing the empty-array fallback instruction")
	}
}

func TestPrompts_DifferByMode(t *testing.T) {
	chat := prompt.BuildChatPrompt(testUser(), testCatalog)
	search := prompt.BuildSearchPrompt(testUser(), testCatalog)
	if chat == search {
		t.Error("chat and search prompts should differ")
	}
}

func TestBuildSearchPrompt_NormalizesSingleLocation(t *testing.T) {
	u := models.UserDetails{
		FirstName: "Ada", LastName: "Lovelace",
		JobTitle: "Engineer", Component: "Platform",
		Location: "Berlin",
	}
	p := prompt.BuildSearchPrompt(u, testCatalog)
	if !strings.Contains(p, "Work location: Berlin") {
		t.Error("search prompt should map the single location field onto the profile block")
	}
}
