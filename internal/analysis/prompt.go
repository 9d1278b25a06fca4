package analysis

import (
	"fmt"
	"sort"
	"strings"

	"cv-insight/internal/constants"
	"cv-insight/internal/docparse"
)

// LangEN and LangFR are the supported report languages. Anything else is
// treated as English.
const (
	LangEN = "en"
	LangFR = "fr"
)

// placeholderJD stands in for the job description when a CV is analyzed on
// its own, so both analysis types share one template per language.
const placeholderJD = "This is a general CV analysis without a specific job description."

const systemPromptCVAnalysis = "You are an expert CV analyst specializing in ATS optimization."

// maxContextItemsPerCategory caps how many requirement lines per category are
// appended as structured context.
const maxContextItemsPerCategory = 5

// BuildCVPrompt renders the single-document analysis prompt: the language
// template with a placeholder job description and the CV text capped at
// MaxPromptCVChars. When sections is non-empty a structure summary is
// appended after the capped text.
func BuildCVPrompt(cvText, lang string, sections docparse.SectionMap) string {
	prompt := renderTemplate(lang, truncate(cvText, constants.MaxPromptCVChars), placeholderJD)

	if structured := renderSectionContext(sections, "CV Structure Analysis:"); structured != "" {
		prompt += fmt.Sprintf("\n\nAdditional Context: \n%s", structured)
	}
	return prompt
}

// BuildMatchPrompt renders the CV-versus-job-description prompt. The CV is
// capped at MaxPromptCVChars and the job description at MaxPromptJDChars;
// structured requirement and section summaries are appended after the caps so
// they are never truncated away.
func BuildMatchPrompt(cvText, jdText, lang string, requirements docparse.RequirementMap, sections docparse.SectionMap) string {
	prompt := renderTemplate(lang,
		truncate(cvText, constants.MaxPromptCVChars),
		truncate(jdText, constants.MaxPromptJDChars))

	var context strings.Builder
	if !requirements.Empty() {
		context.WriteString("Structured Job Requirements:\n")
		for _, category := range docparse.RequirementCategories {
			items := requirements[category]
			if len(items) == 0 {
				continue
			}
			context.WriteString(fmt.Sprintf("- %s:\n", categoryTitle(category)))
			if len(items) > maxContextItemsPerCategory {
				items = items[:maxContextItemsPerCategory]
			}
			for _, item := range items {
				context.WriteString(fmt.Sprintf("  * %s\n", item))
			}
		}
	}
	if structured := renderSectionContext(sections, "CV Structure:"); structured != "" {
		context.WriteString(structured)
	}

	if context.Len() > 0 {
		prompt += fmt.Sprintf("\n\nAdditional Structured Analysis:\n%s", context.String())
	}
	return prompt
}

// BuildGenericPrompt renders the fallback prompt for unrecognized analysis
// types, capped at MaxPromptGenericChars.
func BuildGenericPrompt(text string) string {
	return "Analyze the following text: " + truncate(text, constants.MaxPromptGenericChars)
}

func renderTemplate(lang, cvText, jdText string) string {
	template := promptTemplateEN
	if lang == LangFR {
		template = promptTemplateFR
	}
	return strings.NewReplacer(
		"{cv_text}", cvText,
		"{jd_text}", jdText,
	).Replace(template)
}

// renderSectionContext lists recognized section headers under the given
// heading, in stable key order.
func renderSectionContext(sections docparse.SectionMap, heading string) string {
	if len(sections) == 0 {
		return ""
	}
	keys := make([]string, 0, len(sections))
	for key := range sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(heading)
	b.WriteString("\n")
	for _, key := range keys {
		b.WriteString(fmt.Sprintf("- Section: %s\n", sections[key].Header))
	}
	return b.String()
}

// categoryTitle turns a category key like "required_skills" into
// "Required Skills".
func categoryTitle(category string) string {
	words := strings.Split(category, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// truncate caps s at max bytes. Caps apply to raw character counts, matching
// the persisted report payloads.
func truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
