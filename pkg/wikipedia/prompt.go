package wikipedia

import (
	"fmt"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// AskSystemPrompt tells the model to use get_article only when it needs
// information it was not trained on
const AskSystemPrompt = `You will be asked a question by the user.
If answering the question requires data you were not trained on, you can use the get_article tool to get the contents of a recent Wikipedia article about the topic.
If you can answer the question without needing more information, please do so.
Only call the tool when needed.`

// ResearchSystemPrompt asks for a reading list on a topic
const ResearchSystemPrompt = `You are an intelligent research assistant.
You are given a research topic and must generate a list of Wikipedia articles that are relevant to the research topic.
You have access to a set of tools but only use the ones that are relevant for the task at hand.`

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// AskPrompt wraps a question and asks for the answer in <answer> tags
func AskPrompt(question string) string {
	return fmt.Sprintf("Answer the following question <question>%s</question>\n"+
		"When you can answer the question, keep your answer as short as possible and enclose it in <answer> tags",
		strings.TrimSpace(question))
}

// ResearchPrompt asks for n articles on the topic
func ResearchPrompt(topic string, n uint) string {
	return fmt.Sprintf("Generate %d articles for the research topic %s", n, strings.TrimSpace(topic))
}
