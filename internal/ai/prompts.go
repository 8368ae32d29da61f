package ai

// Prompt templates rendered with pkg/ollama.RenderTemplate. Each instructs
// the model to reply with a single JSON object matching the corresponding
// embedded schema.

const extractPromptTemplate = `You are a recruiting assistant. Below is the raw text of a candidate's resume.
Extract the candidate's full name, email address, and phone number.

Respond with a single JSON object, nothing else:
{"name": string or null, "email": string or null, "phone": string or null}

Use null for any field you cannot find with confidence. Do not invent values.

RESUME TEXT:
{{.Resume}}`

const questionsPromptTemplate = `You are a technical interviewer for a full-stack (React/Node.js) developer role.
Generate exactly 6 interview questions: 2 Easy, 2 Medium, and 2 Hard, in that
order, with ids 1 through 6.

Respond with a single JSON object, nothing else:
{"questions": [{"id": 1, "text": "...", "difficulty": "Easy"}, ...]}

Questions must be answerable in a short written paragraph. Difficulty must be
exactly one of "Easy", "Medium", or "Hard".`

const scorePromptTemplate = `You are a technical interviewer reviewing a completed interview transcript.
The candidate answered under a countdown; "No answer provided." marks an
expired timer. Grade the transcript as a whole.

Respond with a single JSON object, nothing else:
{"score": integer 0-100, "summary": "2-3 sentence assessment of the candidate"}

TRANSCRIPT:
{{range .Items}}Q{{.ID}} ({{.Difficulty}}): {{.Question}}
A{{.ID}}: {{.Answer}}

{{end}}`
