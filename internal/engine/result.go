package engine

import (
	"github.com/renovalab/renovest/internal/handoff"
	"github.com/renovalab/renovest/internal/property"
	"github.com/renovalab/renovest/internal/scoring"
)

// State names one node of the estimation workflow. The ordered trace of
// states a call moved through is reported in AgentData.
type State string

const (
	StateStart            State = "start"
	StateOracleInvoked    State = "oracle_invoked"
	StateSpecificResolved State = "specific_resolved"
	StateHandoffEmitted   State = "handoff_emitted"
	StatePendingInput     State = "pending_input"
	StateFinal            State = "final"
)

// Method values reported in CalculationDetails.
const (
	MethodSpecificProperty       = "specific_property"
	MethodNeighbouringProperties = "neighbouring_properties"
)

// Request is the caller's input to Estimate.
type Request struct {
	Address  string                `json:"address"`
	Details  *property.UserDetails `json:"userDetails,omitempty"`
	FollowUp bool                  `json:"isFollowUp,omitempty"`
}

// PropertyDetails echoes the characteristics the ARV math actually used.
type PropertyDetails struct {
	ListPrice    float64 `json:"listPrice"`
	LivingArea   float64 `json:"livingArea"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	YearBuilt    int     `json:"yearBuilt"`
	PropertyType string  `json:"propertyType"`
}

// Comparables carries the two comparable lists shown to the caller.
type Comparables struct {
	Renovated []property.Record `json:"renovated"`
	AsIs      []property.Record `json:"asIs"`
}

// CalculationDetails describes, in prose, which formula path produced the
// numbers.
type CalculationDetails struct {
	ARVFormula        string `json:"arvFormula"`
	CHVFormula        string `json:"chvFormula"`
	RenovationFormula string `json:"renovationFormula"`
	CalculationMethod string `json:"calculationMethod"`
}

// AgentData exposes the raw material behind the estimate for inspection.
type AgentData struct {
	NeighbouringProperties []property.Record `json:"neighbouringProperties"`
	MatchingProperties     []scoring.Scored  `json:"matchingProperties,omitempty"`
	AgentWorkflow          []State           `json:"agentWorkflow"`
}

// Result is the terminal, caller-visible artifact of one estimation call.
// It is either pending (RequiresUserInput set, monetary fields zero, handoff
// embedded) or final (monetary fields populated).
type Result struct {
	RunID               string             `json:"runId"`
	PropertyAddress     string             `json:"propertyAddress"`
	ARV                 float64            `json:"arv"`
	CHV                 float64            `json:"chv"`
	RenovationAllowance float64            `json:"renovationAllowance"`
	PropertyDetails     PropertyDetails    `json:"propertyDetails"`
	Comparables         Comparables        `json:"comparables"`
	CalculationDetails  CalculationDetails `json:"calculationDetails"`
	HandoffEvent        *handoff.Request   `json:"handoffEvent,omitempty"`
	RequiresUserInput   bool               `json:"requiresUserInput,omitempty"`
	AgentData           AgentData          `json:"agentData"`
}
