package llm

import (
	"fmt"

	"github.com/melodex/melodex/internal/config"
)

// sqlSystemPrompt instructs the model to emit exactly one SELECT statement.
// The rules mirror what the validator later enforces so that a compliant
// translation passes validation on the first try.
const sqlSystemPrompt = `You are a SQL expert. Translate the user's question into a single SQL query for the following database.

%s

Rules:
1. Generate exactly one SELECT statement. Never generate DDL or DML.
2. Use only tables and columns that appear in the schema above.
3. Add LIMIT %d unless the question asks for a specific number of rows.
4. Write SQL keywords in UPPERCASE.
5. Do not end the query with a semicolon.
6. Respond with the bare SQL query only. No explanation, no markdown.

The user may ask in Korean or English; the SQL is the same either way.`

func sqlPrompt(schemaText string) string {
	return fmt.Sprintf(sqlSystemPrompt, schemaText, config.DefaultResultLimit)
}

// analysisSystemPrompt frames the summarization call.
const analysisSystemPrompt = `You are a data analyst. You are given a question, the SQL that answered it, and a preview of the result rows. Answer in the language the question was asked in.`

// analysisUserPrompt carries the question, SQL and a bounded row preview.
const analysisUserPrompt = `Question: %s

SQL:
%s

Result preview:
%s

Provide:
1. A one-paragraph answer to the question based on the results.
2. Two or three notable findings from the data.
3. One follow-up question worth exploring next.`
