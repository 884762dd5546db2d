package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartJobRequest_CorrelationKey(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "canonical field",
			body: `{"workOrderId":"WO-1"}`,
			want: "WO-1",
		},
		{
			name: "lowercase field",
			body: `{"workorderid":"WO-2"}`,
			want: "WO-2",
		},
		{
			name: "uppercase field",
			body: `{"WORKORDERID":"WO-3"}`,
			want: "WO-3",
		},
		{
			name: "pascal case field",
			body: `{"WorkOrderId":"WO-4"}`,
			want: "WO-4",
		},
		{
			name: "snake case field",
			body: `{"workorder_id":"WO-5"}`,
			want: "WO-5",
		},
		{
			name: "mixed case snake field",
			body: `{"WorkOrder_Id":"WO-6"}`,
			want: "WO-6",
		},
		{
			name: "canonical wins over snake",
			body: `{"workOrderId":"WO-7","workorder_id":"WO-8"}`,
			want: "WO-7",
		},
		{
			name: "snake fills in for blank canonical",
			body: `{"workOrderId":"","workorder_id":"WO-9"}`,
			want: "WO-9",
		},
		{
			name: "surrounding whitespace is trimmed",
			body: `{"workOrderId":"  WO-10  "}`,
			want: "WO-10",
		},
		{
			name: "missing key",
			body: `{"contentType":"FormQuestion"}`,
			want: "",
		},
		{
			name: "whitespace only",
			body: `{"workOrderId":"   "}`,
			want: "",
		},
		{
			name: "empty object",
			body: `{}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req StartJobRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.want, req.CorrelationKey())
		})
	}
}
