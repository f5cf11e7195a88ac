// Package canned answers a few common small-talk inputs locally. It is an
// optional layer in front of the backend and is off unless configured.
package canned

import (
	"context"
	"strings"

	"helios-cli/internal/backend"
)

// Rule matches when any keyword occurs in the lowercased input.
type Rule struct {
	Keywords []string
	Reply    string
}

// DefaultRules are checked in order; the first match wins.
var DefaultRules = []Rule{
	{
		Keywords: []string{"hello", "hi", "hey", "greetings"},
		Reply:    "Hello! Great to meet you! I'm HELIOS, ready to chat about anything. What's on your mind?",
	},
	{
		Keywords: []string{"dinner", "eat", "food", "hungry", "meal"},
		Reply: "For dinner, you could try:\n" +
			"• Something quick: pasta, stir-fry, or sandwiches\n" +
			"• Comfort food: pizza, burgers, or soup\n" +
			"• Healthy: salad, grilled chicken, or fish\n" +
			"• Order in: your favorite takeout!\n\n" +
			"What sounds good to you?",
	},
	{
		Keywords: []string{"song", "music", "favorite", "listen"},
		Reply:    "I don't have personal preferences, but I can suggest some great music! What genre do you like? Rock, pop, hip-hop, electronic, classical? Or tell me your mood and I'll suggest something!",
	},
	{
		Keywords: []string{"what do you enjoy", "what are you", "who are you"},
		Reply:    "I'm HELIOS! I enjoy having conversations, helping with questions, and learning about what interests you. I'm curious about your thoughts and happy to chat about anything!",
	},
}

// Lookup returns the first matching reply.
func Lookup(rules []Rule, input string) (string, bool) {
	lower := strings.ToLower(input)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Reply, true
			}
		}
	}
	return "", false
}

// Layer consults the rules before falling through to Next.
type Layer struct {
	Rules []Rule
	Next  backend.Replier
}

var _ backend.Replier = Layer{}

// Wrap puts the default rules in front of next.
func Wrap(next backend.Replier) Layer {
	return Layer{Rules: DefaultRules, Next: next}
}

func (l Layer) Invoke(ctx context.Context, userText string) backend.Reply {
	if reply, ok := Lookup(l.Rules, userText); ok {
		return backend.Reply{Text: reply, Kind: backend.KindCanned}
	}
	if l.Next == nil {
		return backend.Reply{Text: backend.DefaultFallback, Kind: backend.KindUnavailable}
	}
	return l.Next.Invoke(ctx, userText)
}
