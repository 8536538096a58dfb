package types

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Transcript is the provider's job record. Known fields are typed; any other
// top-level field is kept verbatim in Extra. A decoded Transcript re-encodes
// every field it has not changed byte for byte, nested unknown keys and empty
// values included.
type Transcript struct {
	ID                       JobID                      `json:"id"`
	Status                   JobStatus                  `json:"status"`
	Text                     string                     `json:"text"`
	LanguageCode             string                     `json:"language_code,omitempty"`
	AudioURL                 string                     `json:"audio_url"`
	Error                    string                     `json:"error,omitempty"`
	Words                    []Word                     `json:"words,omitempty"`
	Utterances               []Utterance                `json:"utterances,omitempty"`
	Chapters                 []Chapter                  `json:"chapters,omitempty"`
	Entities                 []Entity                   `json:"entities,omitempty"`
	ContentSafetyLabels      *LabelSummary              `json:"content_safety_labels,omitempty"`
	IABCategoriesResult      *LabelSummary              `json:"iab_categories_result,omitempty"`
	SentimentAnalysisResults []SentimentResult          `json:"sentiment_analysis_results,omitempty"`
	Extra                    map[string]json.RawMessage `json:"-"`

	source *transcriptSource
}

// transcriptSource is the payload a Transcript was decoded from, with an
// independent decoding of its typed fields to detect local changes.
type transcriptSource struct {
	raw    map[string]json.RawMessage
	fields transcriptAlias
}

// Word is a single recognized word with millisecond offsets.
type Word struct {
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    *string `json:"speaker,omitempty"`
}

// Utterance is a span of speech attributed to one speaker.
type Utterance struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words"`
}

// Chapter is an auto-generated summary of a section of the media.
type Chapter struct {
	Gist     string `json:"gist"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Entity is a detected named entity.
type Entity struct {
	EntityType string `json:"entity_type"`
	Text       string `json:"text"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// SentimentResult is the sentiment of one sentence.
type SentimentResult struct {
	Text       string  `json:"text"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Speaker    *string `json:"speaker,omitempty"`
}

// LabelSummary is shared by content safety and IAB category results.
type LabelSummary struct {
	Status  string             `json:"status"`
	Results []LabelResult      `json:"results"`
	Summary map[string]float64 `json:"summary"`
}

// LabelResult labels one text span.
type LabelResult struct {
	Text      string    `json:"text"`
	Labels    []Label   `json:"labels"`
	Timestamp Timestamp `json:"timestamp"`
}

// Label is a single label with its confidence. Severity is only set for
// content safety labels.
type Label struct {
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence,omitempty"`
	Relevance  float64  `json:"relevance,omitempty"`
	Severity   *float64 `json:"severity,omitempty"`
}

// Timestamp is a millisecond range.
type Timestamp struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type transcriptAlias Transcript

type transcriptField struct {
	index     int
	name      string
	omitEmpty bool
}

var (
	fieldsOnce sync.Once
	fields     []transcriptField
	knownKeys  map[string]struct{}
)

func transcriptFields() ([]transcriptField, map[string]struct{}) {
	fieldsOnce.Do(func() {
		knownKeys = make(map[string]struct{})
		t := reflect.TypeOf(transcriptAlias{})
		for i := 0; i < t.NumField(); i++ {
			name, opts, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
			if name == "" || name == "-" {
				continue
			}
			fields = append(fields, transcriptField{index: i, name: name, omitEmpty: opts == "omitempty"})
			knownKeys[name] = struct{}{}
		}
	})
	return fields, knownKeys
}

// UnmarshalJSON decodes the typed fields, keeps unknown keys in Extra and
// remembers the payload for re-encoding.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var alias, snapshot transcriptAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	_, known := transcriptFields()
	for key, value := range raw {
		if _, ok := known[key]; ok {
			continue
		}
		if alias.Extra == nil {
			alias.Extra = make(map[string]json.RawMessage)
		}
		alias.Extra[key] = value
	}

	alias.source = &transcriptSource{raw: raw, fields: snapshot}
	*t = Transcript(alias)
	return nil
}

// MarshalJSON writes the typed fields and Extra. Typed fields win on key
// conflicts; a field still equal to its decoded value is written as received.
func (t Transcript) MarshalJSON() ([]byte, error) {
	fieldList, _ := transcriptFields()
	current := reflect.ValueOf(transcriptAlias(t))

	var original reflect.Value
	if t.source != nil {
		original = reflect.ValueOf(t.source.fields)
	}

	out := make(map[string]json.RawMessage, len(fieldList)+len(t.Extra))
	for key, value := range t.Extra {
		out[key] = value
	}
	for _, f := range fieldList {
		value := current.Field(f.index)
		if t.source != nil {
			if raw, ok := t.source.raw[f.name]; ok && reflect.DeepEqual(value.Interface(), original.Field(f.index).Interface()) {
				out[f.name] = raw
				continue
			}
		}
		if f.omitEmpty && isEmptyValue(value) {
			delete(out, f.name)
			continue
		}
		encoded, err := json.Marshal(value.Interface())
		if err != nil {
			return nil, err
		}
		out[f.name] = encoded
	}
	return json.Marshal(out)
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.String:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
