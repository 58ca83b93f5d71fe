package evidence

import "github.com/Shrirang13/SecuRizz/internal/models"

// fixSuggestions maps each label to its static remediation advice.
var fixSuggestions = map[string]models.FixSuggestion{
	"reentrancy": {
		Description: "Use checks-effects-interactions pattern",
		CodeExample: "// Use reentrancy guard\nmodifier nonReentrant() {\n    require(!locked, \"Reentrant call\");\n    locked = true;\n    _;\n    locked = false;\n}",
		Severity:    models.SeverityCritical,
	},
	"integer_overflow": {
		Description: "Use SafeMath library or Solidity 0.8+ checked arithmetic",
		CodeExample: "// Use SafeMath\nimport \"@openzeppelin/contracts/utils/math/SafeMath.sol\";\nusing SafeMath for uint256;",
		Severity:    models.SeverityHigh,
	},
	"integer_underflow": {
		Description: "Use SafeMath library or Solidity 0.8+ checked arithmetic",
		CodeExample: "// Validate before subtracting\nrequire(balance >= amount, \"Insufficient balance\");\nbalance -= amount;",
		Severity:    models.SeverityHigh,
	},
	"access_control": {
		Description: "Implement proper role-based access control",
		CodeExample: "modifier onlyOwner() {\n    require(msg.sender == owner, \"Not owner\");\n    _;\n}",
		Severity:    models.SeverityHigh,
	},
	"tx_origin": {
		Description: "Use msg.sender instead of tx.origin for authentication",
		CodeExample: "// Replace tx.origin with msg.sender\nrequire(msg.sender == owner, \"Unauthorized\");",
		Severity:    models.SeverityMedium,
	},
	"timestamp_dependency": {
		Description: "Avoid using block.timestamp for critical logic",
		CodeExample: "// Use commit-reveal scheme or oracle for time-sensitive operations",
		Severity:    models.SeverityMedium,
	},
	"unchecked_calls": {
		Description: "Check the return value of low-level calls",
		CodeExample: "(bool success, ) = recipient.call{value: amount}(\"\");\nrequire(success, \"Transfer failed\");",
		Severity:    models.SeverityHigh,
	},
	"unsafe_selfdestruct": {
		Description: "Guard or remove selfdestruct; prefer a withdrawal pattern",
		CodeExample: "// Restrict destruction to the owner\nfunction destroy() external onlyOwner {\n    selfdestruct(payable(owner));\n}",
		Severity:    models.SeverityCritical,
	},
	"delegatecall": {
		Description: "Only delegatecall into trusted, immutable implementations",
		CodeExample: "// Pin the implementation address\naddress constant IMPL = 0x...;\nIMPL.delegatecall(data);",
		Severity:    models.SeverityHigh,
	},
	"front_running": {
		Description: "Use commit-reveal or batch settlement to limit ordering games",
		CodeExample: "// Commit phase stores hash(order, salt); reveal phase settles",
		Severity:    models.SeverityMedium,
	},
}

// genericSuggestion is returned for labels without a specific entry.
var genericSuggestion = models.FixSuggestion{
	Description: "Review contract logic and implement appropriate security measures",
	CodeExample: "// Consult security best practices",
	Severity:    models.SeverityUnknown,
}

// FixSuggestionFor returns the remediation advice for a label, or the generic
// suggestion for unknown labels.
func FixSuggestionFor(label string) models.FixSuggestion {
	if s, ok := fixSuggestions[label]; ok {
		return s
	}
	return genericSuggestion
}

// FixSuggestionsFor builds the suggestion table for a finding set.
func FixSuggestionsFor(findings []models.Finding) map[string]models.FixSuggestion {
	suggestions := make(map[string]models.FixSuggestion, len(findings))
	for _, f := range findings {
		suggestions[f.Label] = FixSuggestionFor(f.Label)
	}
	return suggestions
}
