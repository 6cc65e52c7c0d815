package dto

import "storefront-be/pkg/assistant/advisor"

type AssistantRequest struct {
	Message  string              `json:"message" validate:"required"`
	Products []advisor.Candidate `json:"products"`
	Deals    []advisor.Candidate `json:"deals"`
}

// AssistantResponse lists only the candidates the model referenced. A nil
// list means the model did not address that kind and is left out of the
// body; an empty one is sent as [].
type AssistantResponse struct {
	Text     string              `json:"text"`
	Products []advisor.Candidate `json:"products,omitzero"`
	Deals    []advisor.Candidate `json:"deals,omitzero"`
}
