package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccessCode(t *testing.T) {
	assert.True(t, IsSuccessCode("tesSUCCESS"))
	assert.False(t, IsSuccessCode("tecNO_DST"))
	assert.False(t, IsSuccessCode("tefPAST_SEQ"))
	assert.False(t, IsSuccessCode(""))
}

func TestResultMessage(t *testing.T) {
	// the server message wins when present
	assert.Equal(t, "from server", ResultMessage("tecNO_DST", "from server"))
	// known codes fall back to a canned hint
	assert.Equal(t, "The destination account does not exist.", ResultMessage("tecNO_DST", ""))
	// unknown codes fall back to the code itself
	assert.Equal(t, "tecFUTURE_CODE", ResultMessage("tecFUTURE_CODE", ""))
}

func TestSubmitResultTxHash(t *testing.T) {
	r := &SubmitResult{Hash: "AA"}
	assert.Equal(t, "AA", r.TxHash())

	r = &SubmitResult{TxJSON: map[string]interface{}{"hash": "BB"}}
	assert.Equal(t, "BB", r.TxHash())

	r = &SubmitResult{}
	assert.Equal(t, "unknown", r.TxHash())
}
