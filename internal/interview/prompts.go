package interview

import (
	"fmt"
	"strings"
)

const persona = "You are Astha, an experienced professional interviewer. Never mention that you are an AI."

// Setup is the context shared by every phase of one session.
type Setup struct {
	Role       string
	Resume     string
	RoundType  string
	Topic      string
	Difficulty string
}

type promptBuilder struct {
	sb strings.Builder
}

func (b *promptBuilder) line(format string, args ...interface{}) {
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteString("\n")
}

// lineIf writes the line only when value is non-empty.
func (b *promptBuilder) lineIf(value, format string) {
	if strings.TrimSpace(value) != "" {
		b.line(format, value)
	}
}

func (b *promptBuilder) blank() {
	b.sb.WriteString("\n")
}

func (b *promptBuilder) String() string {
	return strings.TrimSpace(b.sb.String())
}

func startPrompt(s Setup) string {
	var b promptBuilder
	b.line("You are conducting a job interview.")
	b.line(persona)
	b.blank()
	b.line("Candidate's resume:\n%s", s.Resume)
	b.blank()
	b.line("Role: %s", s.Role)
	b.lineIf(s.RoundType, "This is a %s round.")
	b.lineIf(s.Topic, "Focus on the topic: %s.")
	b.lineIf(s.Difficulty, "Keep the difficulty of your questions %s.")
	b.blank()
	b.line("Open the interview the way a real interviewer would: introduce yourself and ask the first question. Keep a natural, human tone.")
	return b.String()
}

func respondPrompt(s Setup, history string, answer string) string {
	var b promptBuilder
	b.line("Continue conducting the interview.")
	b.line(persona)
	b.blank()
	b.lineIf(s.Role, "Role description:\n%s")
	b.line("Candidate's resume:\n%s", s.Resume)
	b.blank()
	b.lineIf(s.RoundType, "This is a %s round.")
	b.lineIf(s.Topic, "The candidate asked to focus on: %s.")
	b.lineIf(s.Difficulty, "Keep a %s level of difficulty.")
	b.blank()
	b.line("Conversation so far:\n%s", history)
	b.blank()
	b.line("Latest answer:\n%q", answer)
	b.blank()
	b.line("Briefly react to the answer if it helps, then ask the next question. Do not use labels or formatting.")
	return b.String()
}

func chunkPrompt(in ConcludeInput, part, total int, pairs []QAPair) string {
	var b promptBuilder
	if in.CustomTopic != "" {
		b.line("You are evaluating a candidate for the %q round with a focus on %s.", in.RoundType, in.CustomTopic)
	} else {
		b.line("You are evaluating a candidate for the %q round.", in.RoundType)
	}
	b.line("This is part %d of %d of the interview.", part, total)
	b.blank()
	b.line("Questions and answers:\n%s", formatPairs(pairs))
	b.blank()
	b.line("Role summary:\n%s", in.RoleSummary)
	b.blank()
	b.line("Resume:\n%s", in.ResumeText)
	b.blank()
	b.line("Give clear and concise feedback on this part of the interview only.")
	return b.String()
}

func finalPrompt(in ConcludeInput, feedbacks []string) string {
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}

	var b promptBuilder
	b.line("You have reviewed an interview split into %d parts.", len(feedbacks))
	b.blank()
	b.line("Role: %s", in.RoleSummary)
	b.line("Difficulty: %s", difficulty)
	b.line("Resume: %s", in.ResumeText)
	b.blank()
	b.line("Feedback per part:")
	for i, f := range feedbacks {
		b.line("Part %d feedback:\n%s", i+1, f)
		b.blank()
	}
	b.line("Write an overall summary of the candidate's performance.")
	b.line("Then, on its own final line, write exactly one of:")
	b.line("Result: Success")
	b.line("Result: Failure")
	b.line("Write nothing after the Result line.")
	return b.String()
}

func formatResumePrompt(resume string) string {
	var b promptBuilder
	b.line("You are a resume formatter.")
	b.blank()
	b.line("Organise the following extracted resume text into these sections where present:")
	b.line("Professional Summary, Skills, Projects, Work Experience, Education, Certifications, Achievements.")
	b.line("Use markdown headings and bullet points. Do not invent any information.")
	b.blank()
	b.line("Resume text:\n%s", resume)
	return b.String()
}

func summarizePagePrompt(title, content, instruction string) string {
	var b promptBuilder
	b.line("Summarise the following job posting into a short role description an interviewer can work from.")
	b.line("Cover responsibilities, required skills, seniority and anything unusual about the role.")
	b.lineIf(instruction, "Additional instruction: %s")
	b.blank()
	b.lineIf(title, "Title: %s")
	b.line("Posting:\n%s", content)
	return b.String()
}
