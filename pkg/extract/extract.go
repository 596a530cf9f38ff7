/*
extract produces structured output from text by forcing the model to call
a tool whose input schema is the shape of the output: sentiment scores,
named entities or translations
*/
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	agent "github.com/mutablelogic/go-tooluse/pkg/agent"
	opt "github.com/mutablelogic/go-tooluse/pkg/opt"
	schema "github.com/mutablelogic/go-tooluse/pkg/schema"
	tool "github.com/mutablelogic/go-tooluse/pkg/tool"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Task is a kind of structured output
type Task struct {
	Name   string
	System string
	Tool   tool.Tool
}

type Sentiment struct {
	Positive float64 `json:"positive_score" jsonschema:"The positive sentiment score for the text 0.0 to 1.0"`
	Negative float64 `json:"negative_score" jsonschema:"The negative sentiment score for the text 0.0 to 1.0"`
	Neutral  float64 `json:"neutral_score" jsonschema:"The neutral sentiment score for the text 0.0 to 1.0"`
}

type Entity struct {
	Name    string `json:"name,omitempty" jsonschema:"The entity name from the text"`
	Type    string `json:"type,omitempty" jsonschema:"The type of entity (e.g. PERSON, LOCATION, ORGANIZATION, etc.)"`
	Context string `json:"context,omitempty" jsonschema:"The context of the entity in the text"`
}

type Entities struct {
	Entities []Entity `json:"entities" jsonschema:"The entities from the text"`
}

type Translation struct {
	English  string `json:"english" jsonschema:"The original text in English"`
	Spanish  string `json:"spanish" jsonschema:"The translated text in Spanish"`
	French   string `json:"french" jsonschema:"The translated text in French"`
	Japanese string `json:"japanese" jsonschema:"The translated text in Japanese"`
	Arabic   string `json:"arabic" jsonschema:"The translated text in Arabic"`
	Chinese  string `json:"chinese" jsonschema:"The translated text in Chinese"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	TaskSentiment = "sentiment"
	TaskEntities  = "entities"
	TaskTranslate = "translate"

	// DefaultTemperature is used when the config does not set one
	DefaultTemperature = 0.5
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Tasks returns the structured output tasks keyed by name
func Tasks() (map[string]Task, error) {
	sentiment, err := tool.OutputFor[Sentiment]("print_sentiment_scores", "Prints the sentiment scores for a given text")
	if err != nil {
		return nil, err
	}
	entities, err := tool.OutputFor[Entities]("print_entities", "Extracts the entities from the text")
	if err != nil {
		return nil, err
	}
	translate, err := tool.OutputFor[Translation]("translate", "Translates the text from English into other languages")
	if err != nil {
		return nil, err
	}
	return map[string]Task{
		TaskSentiment: {
			Name:   TaskSentiment,
			System: "Identify the sentiment of the text and print the sentiment scores - you must use the print_sentiment_scores tool to print the sentiment scores.",
			Tool:   sentiment,
		},
		TaskEntities: {
			Name:   TaskEntities,
			System: "Extract the entities from the text and print them - you must use the print_entities tool to print the entities.",
			Tool:   entities,
		},
		TaskTranslate: {
			Name:   TaskTranslate,
			System: "Translate the text from English into other languages. Use the translate tool.",
			Tool:   translate,
		},
	}, nil
}

// Names returns the task names in alphabetical order
func Names() []string {
	names := []string{TaskSentiment, TaskEntities, TaskTranslate}
	sort.Strings(names)
	return names
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Run performs the named task on the text and returns the structured output
// as indented JSON
func Run(ctx context.Context, generator tooluse.Generator, name, text string, config schema.GenerationConfig, opts ...opt.Opt) (json.RawMessage, error) {
	tasks, err := Tasks()
	if err != nil {
		return nil, err
	}
	task, exists := tasks[name]
	if !exists {
		return nil, tooluse.ErrNotFound.Withf("task %q", name)
	}
	if config.Temperature == nil {
		config.Temperature = types.Ptr(DefaultTemperature)
	}
	result, err := agent.Extract(ctx, generator, task.System, text, task.Tool, config, opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, result, "", "  "); err != nil {
		return nil, tooluse.ErrMalformedResponse.Wrap(err)
	}
	return buf.Bytes(), nil
}
