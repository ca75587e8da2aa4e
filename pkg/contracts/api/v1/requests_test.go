package api

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestInteractionRequest_Validation(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		req     InteractionRequest
		wantErr bool
	}{
		{
			name: "legend click from all visible",
			req: InteractionRequest{
				State: ChartState{Mode: "ALL_VISIBLE"},
				Event: ChartEvent{Kind: "legend", Sector: "Energy"},
			},
		},
		{
			name: "point click on first dataset",
			req: InteractionRequest{
				State: ChartState{Mode: "ISOLATED", Sector: "Energy", Focus: intPtr(0)},
				Event: ChartEvent{Kind: "point", DatasetIndex: intPtr(0)},
			},
		},
		{
			name: "background click",
			req: InteractionRequest{
				State: ChartState{Mode: "ISOLATED", Sector: "Energy"},
				Event: ChartEvent{Kind: "background"},
			},
		},
		{
			name:    "missing mode",
			req:     InteractionRequest{Event: ChartEvent{Kind: "background"}},
			wantErr: true,
		},
		{
			name: "isolated without sector",
			req: InteractionRequest{
				State: ChartState{Mode: "ISOLATED"},
				Event: ChartEvent{Kind: "background"},
			},
			wantErr: true,
		},
		{
			name: "negative focus",
			req: InteractionRequest{
				State: ChartState{Mode: "ISOLATED", Sector: "Energy", Focus: intPtr(-1)},
				Event: ChartEvent{Kind: "background"},
			},
			wantErr: true,
		},
		{
			name: "legend without sector",
			req: InteractionRequest{
				State: ChartState{Mode: "ALL_VISIBLE"},
				Event: ChartEvent{Kind: "legend"},
			},
			wantErr: true,
		},
		{
			name: "point without dataset",
			req: InteractionRequest{
				State: ChartState{Mode: "ALL_VISIBLE"},
				Event: ChartEvent{Kind: "point"},
			},
			wantErr: true,
		},
		{
			name: "unknown kind",
			req: InteractionRequest{
				State: ChartState{Mode: "ALL_VISIBLE"},
				Event: ChartEvent{Kind: "hover"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
