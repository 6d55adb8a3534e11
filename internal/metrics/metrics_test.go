package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordGeneration(t *testing.T) {
	before := testutil.ToFloat64(GenerationsTotal.WithLabelValues("4K", "success"))
	RecordGeneration("4K", "success", 3.5)
	assert.Equal(t, before+1, testutil.ToFloat64(GenerationsTotal.WithLabelValues("4K", "success")))
}

func TestRecordReference(t *testing.T) {
	t.Run("成功時のみバイト数を加算するのだ", func(t *testing.T) {
		bytesBefore := testutil.ToFloat64(ReferenceBytesTotal.WithLabelValues("upload"))

		RecordReference("upload", "success", 100)
		RecordReference("upload", "error", 50)

		assert.Equal(t, bytesBefore+100, testutil.ToFloat64(ReferenceBytesTotal.WithLabelValues("upload")))
	})
}
