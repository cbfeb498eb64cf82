package recommend

import "fmt"

const promptTemplate = `You are a helpful librarian AI. A user is looking for book recommendations.

User query: "%s"

Based on this query, recommend 3 books with:
1. Book title and author
2. Brief reason why it matches their interest (max 50 words)
3. Confidence score (0-1)

Respond in JSON format:
{
  "recommendations": [
    {
      "title": "Book Title",
      "author": "Author Name",
      "reason": "Why this book matches their interest",
      "confidence": 0.95
    }
  ]
}

Make sure the response is valid JSON and includes exactly 3 recommendations.`

// BuildPrompt renders the fixed librarian prompt around query.
func BuildPrompt(query string) string {
	return fmt.Sprintf(promptTemplate, query)
}
