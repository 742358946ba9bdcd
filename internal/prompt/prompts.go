// Package prompt holds the instruction templates sent to the text and
// image generation services.
package prompt

import (
	"fmt"
	"strings"
)

// Outline asks for a short numbered outline used as the preview step
// before committing to full generation.
const Outline = "You are an expert instructor. Given a syllabus/topic, produce a concise numbered outline " +
	"(4-8 top-level bullets) of what a comprehensive course/documentation should cover. Output as a plain numbered list. Topic:"

// Notes asks for the long-form study module in Markdown.
const Notes = "You are an expert educator and technical writer. Produce a comprehensive, in-depth documentation-style " +
	"learning module for the given Topic in Markdown. The document must include (in this order):\n\n" +
	"1) **Title + Executive Summary** (2-3 paragraphs with key insights)\n" +
	"2) **Prerequisites** (detailed list with explanations)\n" +
	"3) **Learning Objectives** (5-10 specific, measurable goals)\n" +
	"4) **Table of Contents** (auto-generated from headings)\n" +
	"5) **Core Concepts** (fundamental principles with detailed explanations)\n" +
	"6) **Detailed Sections** for each subtopic including:\n" +
	"   - Comprehensive explanations with real-world context\n" +
	"   - Step-by-step walkthroughs with examples\n" +
	"   - Code snippets, diagrams descriptions, and practical applications\n" +
	"   - Best practices and industry standards\n" +
	"   - Performance considerations and optimization tips\n" +
	"7) **Advanced Topics** (deeper dive into complex aspects)\n" +
	"8) **Common Pitfalls and Misconceptions** (with explanations and how to avoid them)\n" +
	"9) **Real-World Applications** (case studies and practical examples)\n" +
	"10) **Study Plan** (structured learning path over 2-4 weeks)\n" +
	"11) **Exercises & Projects** (15 problems with difficulty progression: Beginner, Intermediate, Advanced)\n" +
	"12) **Answers Section** (detailed solutions with explanations)\n" +
	"13) **Further Reading and Resources** (papers, videos, documentation, books, courses, communities, tools)\n" +
	"14) **Glossary of Key Terms** (comprehensive definitions)\n" +
	"15) **Quick Reference Guide** (cheat sheet format)\n\n" +
	"Output valid Markdown using headings (#, ##, ###), lists (-), code fences (```), tables, and callout boxes. " +
	"Make it extremely comprehensive and detailed. Aim for 4000-6000 words total. " +
	"Write in an engaging, professional tone suitable for both self-study and reference. " +
	"Include practical examples, analogies, and visual descriptions for complex concepts. Topic:"

// References asks for a curated resource list in Markdown.
const References = `Generate comprehensive references for the given topic.

Include the following categories with specific examples:

1. **Academic Resources** - research papers with DOI links, university course materials, journals
2. **YouTube Educational Content** - specific video recommendations with channel names, series, playlists
3. **Web Resources** - official documentation, interactive tutorials, community forums
4. **Books and Publications** - textbooks with ISBN numbers, e-books, industry reports
5. **Tools and Software** - relevant applications, online platforms, development environments
6. **Professional Development** - certification programs, MOOCs, professional associations

Format as a structured markdown list with descriptions and links where applicable.
Focus on high-quality, authoritative sources that would be valuable for learning this topic. Topic:`

// Quiz asks for exactly ten multiple-choice questions in strict JSON.
const Quiz = "You are an assessment generator. Create EXACTLY 10 multiple-choice questions for the Topic in STRICT JSON format.\n" +
	"Constraints:\n" +
	"- Exactly 10 questions.\n" +
	"- Exactly 4 options per question.\n" +
	"- Include a 'difficulty' field with values 'Easy','Medium','Hard'.\n" +
	"- Use this exact JSON form (answer is zero-based index):\n" +
	"[\n" +
	"  {\"question\":\"...\",\"options\":[\"optA\",\"optB\",\"optC\",\"optD\"], \"answer\": 0, \"difficulty\":\"Easy\"},\n" +
	"  ...  (10 items total)\n" +
	"]\n" +
	"Split difficulties: 4 Easy, 3 Medium, 3 Hard (any order). DO NOT output any commentary outside the JSON. Topic:"

// QuizStrict is the hardened variant used on the second extraction
// attempt, after the first response failed to parse or validate.
const QuizStrict = "IMPORTANT: Output ONLY the JSON array. If you add comments, wrap the JSON inside <JSON> ... </JSON> tags. " + Quiz

// ForQuizAttempt returns the quiz instruction for a given attempt number:
// the normal prompt first, the strict variant for every retry.
func ForQuizAttempt(attempt int) string {
	if attempt <= 1 {
		return Quiz
	}
	return QuizStrict
}

// IllustrationAspects lists the distinct angles illustrated for a topic,
// in generation order.
func IllustrationAspects(topic string) []string {
	return []string{
		fmt.Sprintf("Overview diagram for %s", topic),
		fmt.Sprintf("Detailed process flow for %s", topic),
		fmt.Sprintf("Key concepts illustration for %s", topic),
		fmt.Sprintf("Examples and applications of %s", topic),
		fmt.Sprintf("Advanced topics in %s", topic),
	}
}

// Illustration builds an image-generation prompt for a topic, optionally
// anchored by a snippet of already-generated notes (truncated to keep the
// prompt small).
func Illustration(topic, context string) string {
	topic = strings.TrimSpace(topic)
	if context != "" {
		// rune-wise so a multi-byte character never gets split
		if runes := []rune(context); len(runes) > 200 {
			context = string(runes[:200])
		}
		return fmt.Sprintf("Educational illustration for the topic: %s. Context: %s. Style: clean, professional, educational diagram or illustration suitable for learning materials.", topic, context)
	}
	return fmt.Sprintf("Educational illustration for the topic: %s. Style: clean, professional, educational diagram or illustration suitable for learning materials.", topic)
}
