package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdeaEligibleForAnalysis(t *testing.T) {
	score := 80
	cases := []struct {
		name string
		idea Idea
		want bool
	}{
		{"new without score", Idea{Status: IdeaStatusNew}, true},
		{"researching without score", Idea{Status: IdeaStatusResearching}, true},
		{"scored and settled", Idea{Status: IdeaStatusReady, ViralityScore: &score}, false},
		{"scored but flagged for reanalysis", Idea{Status: IdeaStatusReady, ViralityScore: &score, NeedsReanalysis: true}, true},
		{"posted without score", Idea{Status: IdeaStatusPosted}, false},
		{"posted and flagged", Idea{Status: IdeaStatusPosted, ViralityScore: &score, NeedsReanalysis: true}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.idea.EligibleForAnalysis())
		})
	}
}

func TestIdeaHelpRequest(t *testing.T) {
	cases := []struct {
		title string
		help  bool
		topic string
	}{
		{"help sourdough baking", true, "sourdough baking"},
		{"Help Sourdough", true, "Sourdough"},
		{"  help gardening", true, "gardening"},
		{"helpful tips for beginners", false, ""},
		{"how to help your audience", false, ""},
		{"help", false, ""},
	}

	for _, c := range cases {
		idea := Idea{Title: c.title}
		assert.Equal(t, c.help, idea.IsHelpRequest(), "title=%q", c.title)
		if c.help {
			assert.Equal(t, c.topic, idea.HelpTopic(), "title=%q", c.title)
		}
	}
}
