package ledger

import "strings"

// engineResultHints maps common engine result codes to a message shown
// when the server did not include one.
var engineResultHints = map[string]string{
	"tesSUCCESS":              "The transaction was applied.",
	"tecUNFUNDED_PAYMENT":     "The sending account has insufficient funds.",
	"tecNO_DST":               "The destination account does not exist.",
	"tecNO_DST_INSUF_XRP":     "The destination does not exist and the payment is below the account reserve.",
	"tecDST_TAG_NEEDED":       "The destination requires a destination tag.",
	"tecPATH_DRY":             "No path with enough liquidity was found.",
	"tecNO_PERMISSION":        "The sending account lacks permission for this operation.",
	"tecNO_ENTRY":             "The referenced ledger object does not exist.",
	"tecINSUFFICIENT_RESERVE": "The account balance would fall below the reserve.",
	"tecEXPIRED":              "The referenced object has expired.",
	"tecDUPLICATE":            "An equivalent object already exists.",
	"tecHAS_OBLIGATIONS":      "The account still has obligations and cannot be removed.",
	"tecNO_REGULAR_KEY":       "The master key is disabled and no regular key is set.",
	"tefPAST_SEQ":             "The transaction sequence number was already used.",
	"tefMAX_LEDGER":           "The transaction expired before it could be included in a ledger.",
	"tefBAD_AUTH":             "The signature does not authorize this account.",
	"terQUEUED":               "The transaction was queued for a later ledger.",
	"terPRE_SEQ":              "The transaction sequence number is ahead of the account sequence.",
	"telINSUF_FEE_P":          "The fee is insufficient for the current load.",
	"temBAD_FEE":              "The transaction fee is malformed.",
	"temREDUNDANT":            "The transaction would have no effect.",
	"temINVALID":              "The transaction is malformed.",
}

// IsSuccessCode reports whether an engine result means the transaction
// was applied to the open ledger
func IsSuccessCode(engineResult string) bool {
	return strings.HasPrefix(engineResult, "tes")
}

// IsQueuedCode reports whether the transaction is held for a later ledger
func IsQueuedCode(engineResult string) bool {
	return engineResult == "terQUEUED"
}

// ResultMessage picks a human readable message for an engine result,
// preferring what the server sent
func ResultMessage(engineResult, serverMessage string) string {
	if serverMessage != "" {
		return serverMessage
	}
	if hint, ok := engineResultHints[engineResult]; ok {
		return hint
	}
	return engineResult
}
