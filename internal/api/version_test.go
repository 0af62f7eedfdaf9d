package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionHandler(t *testing.T) {
	tests := []struct {
		name string
		info BuildInfo
		want versionResponse
	}{
		{
			name: "stamped build",
			info: BuildInfo{Version: "0.3.0", GitCommit: "9f1c2e7", BuildDate: "2026-10-01T08:00:00Z"},
			want: versionResponse{Version: "0.3.0", GitCommit: "9f1c2e7", BuildDate: "2026-10-01T08:00:00Z"},
		},
		{
			name: "unstamped build",
			want: versionResponse{Version: "dev", GitCommit: "unknown", BuildDate: "unknown"},
		},
		{
			name: "commit missing",
			info: BuildInfo{Version: "1.0.0", BuildDate: "2026-10-01T08:00:00Z"},
			want: versionResponse{Version: "1.0.0", GitCommit: "unknown", BuildDate: "2026-10-01T08:00:00Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			VersionHandler(tt.info).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got versionResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "eventhub", got.Service)
			assert.Equal(t, tt.want.Version, got.Version)
			assert.Equal(t, tt.want.GitCommit, got.GitCommit)
			assert.Equal(t, tt.want.BuildDate, got.BuildDate)
			assert.Equal(t, runtime.Version(), got.GoVersion)
		})
	}
}
