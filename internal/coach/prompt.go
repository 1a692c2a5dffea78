package coach

import (
	"fmt"
	"strings"
)

// maxResumeChars bounds the resume excerpt added to the analysis prompt.
const maxResumeChars = 6000

func analyzePrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following professional profile:\nCurrent Role: %s\nCurrent Skills: %s\nCareer Goal: %s\n\n",
		in.Role, in.Skills, in.Goal)
	if resume := strings.TrimSpace(in.Resume); resume != "" {
		if len(resume) > maxResumeChars {
			resume = resume[:maxResumeChars]
		}
		fmt.Fprintf(&b, "Resume:\n%s\n\n", resume)
	}
	b.WriteString("Provide a detailed analysis including strengths, skill gaps, and suggestions.")
	return b.String()
}

func recommendPrompt(in Input) string {
	return fmt.Sprintf("Profile:\nRole:%s\nSkills:%s\nGoal:%s\n", in.Role, in.Skills, in.Goal) +
		"List top 5 skills user should learn (each on a new line), with:\n" +
		"Skill name | Brief description | Top verified resource name | Resource link\n" +
		"Example:\nMachine Learning | Fundamentals of ML algorithms | Coursera ML course | https://coursera.org/ml\n" +
		"Give real, reputable resources."
}

func roadmapPrompt(in Input, roadmapSkills []string) string {
	extra := ""
	if len(roadmapSkills) > 0 {
		extra = "\nSkills chosen for roadmap: " + strings.Join(roadmapSkills, ", ")
	}
	return fmt.Sprintf("Profile:\nRole: %s\nSkills: %s\nGoal: %s\n%s\n", in.Role, in.Skills, in.Goal, extra) +
		"Generate a week-by-week learning roadmap (plain text) to help the user achieve their goal."
}

func jobsPrompt(in Input, plannedSkills []string) string {
	return fmt.Sprintf(`Suggest 3-5 concrete job profiles a user can apply for after completing the following career learning plan.
User goal: %s
User skills: %s
Skills planned: %s
For each, give:
- Role title
- 1-line description matching skillset and goal
Respond as a markdown unordered list.
Avoid duplicates. Do not repeat the user's own goal unless it's a stepping-stone variant.
`, in.Goal, in.Skills, strings.Join(plannedSkills, ", "))
}
