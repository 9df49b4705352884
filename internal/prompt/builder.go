// Package prompt assembles the instruction documents sent to the reasoning
// engine. Both builders are pure functions of their inputs: identical
// arguments produce byte-identical prompts.
package prompt

import (
	"fmt"
	"strings"

	"github.com/formdesk/formdesk/pkg/models"
)

// BuildChatPrompt renders the conversational-assistant instruction
// document: persona, hard rules, employee profile, catalog description,
// chat scenario guidance — always in that order.
func BuildChatPrompt(user models.UserDetails, catalogDescription string) string {
	return assemble(chatPersona, user, catalogDescription, chatGuidance)
}

// BuildSearchPrompt renders the structured link-search instruction
// document. It ends with the exact output contract: a JSON array of
// {url, description} objects and nothing else.
func BuildSearchPrompt(user models.UserDetails, catalogDescription string) string {
	return assemble(searchPersona, user, catalogDescription, searchGuidance)
}

func assemble(persona string, user models.UserDetails, catalogDescription, guidance string) string {
	var b strings.Builder

	b.WriteString(persona)
	b.WriteString("\n\n")
	b.WriteString(hardRules)
	b.WriteString("\n\n")
	b.WriteString(userContext(user))
	b.WriteString("\n\nAvailable forms:\n\n")
	b.WriteString(catalogDescription)
	b.WriteString("\n\n")
	b.WriteString(guidance)

	return b.String()
}

// userContext renders the employee profile block. These facts are known for
// the whole session and the hard rules forbid re-asking for them.
func userContext(u models.UserDetails) string {
	u = u.Normalize()

	var b strings.Builder
	b.WriteString("Employee profile:\n")
	fmt.Fprintf(&b, "- First name: %s\n", u.FirstName)
	fmt.Fprintf(&b, "- Last name: %s\n", u.LastName)
	fmt.Fprintf(&b, "- Job title: %s\n", u.JobTitle)
	fmt.Fprintf(&b, "- Component: %s\n", u.Component)
	fmt.Fprintf(&b, "- Work location: %s\n", u.WorkLocation)
	fmt.Fprintf(&b, "- Office location: %s", u.OfficeLocation)
	return b.String()
}
