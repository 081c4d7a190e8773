package utils

import "strings"

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// CapitalizeASCII uppercases the first byte of s. Discord MIME subtypes are
// plain ASCII, so no unicode handling is needed here.
func CapitalizeASCII(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SpoilerMention wraps a user mention in spoiler markers so moderation logs
// do not reveal the author at a glance.
func SpoilerMention(userID string) string {
	return "||<@" + userID + ">||"
}

// Mention renders a plain user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
