package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/modelmirror/modelmirror/internal/models"
	"gorm.io/datatypes"
)

type catalogPayload struct {
	Data []json.RawMessage `json:"data"`
}

type entryPayload struct {
	ID                  string                     `json:"id"`
	CanonicalSlug       *string                    `json:"canonical_slug"`
	HuggingFaceID       *string                    `json:"hugging_face_id"`
	Name                string                     `json:"name"`
	Created             int64                      `json:"created"`
	Description         string                     `json:"description"`
	ContextLength       int                        `json:"context_length"`
	Architecture        *architecturePayload       `json:"architecture"`
	Pricing             *pricingPayload            `json:"pricing"`
	TopProvider         *topProviderPayload        `json:"top_provider"`
	PerRequestLimits    map[string]json.RawMessage `json:"per_request_limits"`
	SupportedParameters []string                   `json:"supported_parameters"`
}

type architecturePayload struct {
	Modality         string   `json:"modality"`
	Tokenizer        string   `json:"tokenizer"`
	InstructType     *string  `json:"instruct_type"`
	InputModalities  []string `json:"input_modalities"`
	OutputModalities []string `json:"output_modalities"`
}

type pricingPayload struct {
	Prompt            *string `json:"prompt"`
	Completion        *string `json:"completion"`
	Request           *string `json:"request"`
	Image             *string `json:"image"`
	WebSearch         *string `json:"web_search"`
	InternalReasoning *string `json:"internal_reasoning"`
	InputCacheRead    *string `json:"input_cache_read"`
	InputCacheWrite   *string `json:"input_cache_write"`
}

type topProviderPayload struct {
	ContextLength       int  `json:"context_length"`
	MaxCompletionTokens int  `json:"max_completion_tokens"`
	IsModerated         bool `json:"is_moderated"`
}

// Snapshot holds one parsed upstream catalog, ready to replace the store.
type Snapshot struct {
	Entries             []models.CatalogEntry
	Pricings            []models.Pricing
	Architectures       []models.Architecture
	InputModalities     []models.InputModality
	OutputModalities    []models.OutputModality
	TopProviders        []models.TopProvider
	PerRequestLimits    []models.PerRequestLimit
	SupportedParameters []models.SupportedParameter
}

// ParseCatalogPayload converts the upstream catalog document into a Snapshot.
//
// Entries without an identifier are skipped. A missing sub-object (pricing,
// architecture, limits) yields zero child rows for that entry, not an error.
func ParseCatalogPayload(data []byte) (*Snapshot, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("parse catalog payload: empty payload")
	}

	var payload catalogPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse catalog payload: decode document: %w", err)
	}

	snapshot := &Snapshot{}
	seen := make(map[string]struct{}, len(payload.Data))

	for _, entryRaw := range payload.Data {
		if len(entryRaw) == 0 {
			continue
		}

		var entry entryPayload
		if err := json.Unmarshal(entryRaw, &entry); err != nil {
			return nil, fmt.Errorf("parse catalog payload: decode entry: %w", err)
		}

		id := strings.TrimSpace(entry.ID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		extra, errExtra := buildEntryExtra(entryRaw)
		if errExtra != nil {
			return nil, errExtra
		}

		record := models.CatalogEntry{
			ID:            id,
			Name:          entry.Name,
			Created:       entry.Created,
			Description:   entry.Description,
			ContextLength: entry.ContextLength,
			CanonicalSlug: entry.CanonicalSlug,
			HuggingFaceID: entry.HuggingFaceID,
			Extra:         extra,
		}
		if company, model, ok := splitIdentifier(id); ok {
			record.Company = &company
			record.Model = &model
		}
		if entry.Created > 0 {
			created := time.Unix(entry.Created, 0).UTC()
			record.CreatedDate = &created
		}
		snapshot.Entries = append(snapshot.Entries, record)

		if entry.Architecture != nil {
			snapshot.Architectures = append(snapshot.Architectures, models.Architecture{
				ModelID:      id,
				Modality:     entry.Architecture.Modality,
				Tokenizer:    entry.Architecture.Tokenizer,
				InstructType: entry.Architecture.InstructType,
			})
			for _, modality := range entry.Architecture.InputModalities {
				snapshot.InputModalities = append(snapshot.InputModalities, models.InputModality{
					ModelID:  id,
					Modality: modality,
				})
			}
			for _, modality := range entry.Architecture.OutputModalities {
				snapshot.OutputModalities = append(snapshot.OutputModalities, models.OutputModality{
					ModelID:  id,
					Modality: modality,
				})
			}
		}

		if entry.Pricing != nil {
			snapshot.Pricings = append(snapshot.Pricings, models.Pricing{
				ModelID:           id,
				Prompt:            entry.Pricing.Prompt,
				Completion:        entry.Pricing.Completion,
				Request:           entry.Pricing.Request,
				Image:             entry.Pricing.Image,
				WebSearch:         entry.Pricing.WebSearch,
				InternalReasoning: entry.Pricing.InternalReasoning,
				InputCacheRead:    entry.Pricing.InputCacheRead,
				InputCacheWrite:   entry.Pricing.InputCacheWrite,
			})
		}

		if entry.TopProvider != nil {
			snapshot.TopProviders = append(snapshot.TopProviders, models.TopProvider{
				ModelID:             id,
				ContextLength:       entry.TopProvider.ContextLength,
				MaxCompletionTokens: entry.TopProvider.MaxCompletionTokens,
				IsModerated:         entry.TopProvider.IsModerated,
			})
		}

		for _, key := range sortedLimitKeys(entry.PerRequestLimits) {
			snapshot.PerRequestLimits = append(snapshot.PerRequestLimits, models.PerRequestLimit{
				ModelID:    id,
				LimitKey:   key,
				LimitValue: limitValueText(entry.PerRequestLimits[key]),
			})
		}

		for _, parameter := range entry.SupportedParameters {
			snapshot.SupportedParameters = append(snapshot.SupportedParameters, models.SupportedParameter{
				ModelID:   id,
				Parameter: parameter,
			})
		}
	}

	return snapshot, nil
}

// Len returns the number of catalog entries in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// splitIdentifier derives company and model name from a catalog identifier.
func splitIdentifier(id string) (company, model string, ok bool) {
	idx := strings.Index(id, "/")
	if idx < 0 {
		return "", "", false
	}
	return id[:idx], id[idx+1:], true
}

// buildEntryExtra keeps upstream fields the schema does not model.
func buildEntryExtra(entryRaw json.RawMessage) (datatypes.JSON, error) {
	var entry map[string]any
	if err := json.Unmarshal(entryRaw, &entry); err != nil {
		return nil, fmt.Errorf("parse catalog payload: decode entry extra: %w", err)
	}
	for _, known := range []string{
		"id", "canonical_slug", "hugging_face_id", "name", "created",
		"description", "context_length", "architecture", "pricing",
		"top_provider", "per_request_limits", "supported_parameters",
	} {
		delete(entry, known)
	}
	if len(entry) == 0 {
		return datatypes.JSON([]byte("{}")), nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("parse catalog payload: encode entry extra: %w", err)
	}
	return datatypes.JSON(data), nil
}

// sortedLimitKeys returns limit keys in a deterministic order.
func sortedLimitKeys(limits map[string]json.RawMessage) []string {
	if len(limits) == 0 {
		return nil
	}
	keys := make([]string, 0, len(limits))
	for key := range limits {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// limitValueText renders a raw limit value as text.
func limitValueText(raw json.RawMessage) string {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	return strings.TrimSpace(string(raw))
}
