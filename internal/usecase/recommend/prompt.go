package recommend

import "fmt"

const systemPrompt = "You are a helpful assistant that outputs JSON."

const promptTemplate = `You are an expert Field Ops Advisor for forestry and agriculture.
Your task is to provide a grounded recommendation based on a specific Standard Operating Procedure (SOP).

INPUTS:
1. Field Note (User Observation): %q
2. Matched SOP (Reference Document): %q

INSTRUCTIONS:
- Provide 3-5 actionable bullet points telling the user what to do next based on the SOP.
- EXTRACT EXACT TEXT SPANS from the SOP that support your advice. These must be verbatim quotes.
- Output specific JSON format.

OUTPUT FORMAT (JSON ONLY):
{
    "bullets": ["action 1", "action 2", ...],
    "citations": ["exact quote from text 1", "exact quote from text 2", ...]
}`

// buildPrompt embeds the field note and the grounding document's full text into
// the fixed prompt contract.
func buildPrompt(noteText, docText string) string {
	return fmt.Sprintf(promptTemplate, noteText, docText)
}
