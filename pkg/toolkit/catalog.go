package toolkit

// Category groups tools in the catalog
type Category string

const (
	CategoryNetwork   Category = "network"
	CategoryWeb       Category = "web"
	CategoryAnalysis  Category = "analysis"
	CategoryUtilities Category = "utilities"
)

// Categories is the display order of the catalog
var Categories = []Category{CategoryNetwork, CategoryWeb, CategoryAnalysis, CategoryUtilities}

// Tool is one catalog entry. Command is empty for tools that are listed but
// not runnable from the terminal yet.
type Tool struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Command     string   `json:"command,omitempty"`
}

var catalog = []Tool{
	{ID: "port_scanner", Name: "Port Scanner", Description: "Scan for open network ports on target systems", Category: CategoryNetwork, Command: "scan"},
	{ID: "ip_lookup", Name: "IP Lookup", Description: "Retrieve detailed information about IP addresses", Category: CategoryNetwork, Command: "lookup"},
	{ID: "ssl_checker", Name: "SSL Checker", Description: "Inspect the TLS certificate served by a host", Category: CategoryWeb, Command: "ssl"},
	{ID: "dns_lookup", Name: "DNS Lookup", Description: "Resolve A, MX and NS records for a domain", Category: CategoryWeb, Command: "dns"},
	{ID: "network_analyzer", Name: "Network Analyzer", Description: "Analyze traffic on the local network", Category: CategoryAnalysis},
	{ID: "wifi_analyzer", Name: "WiFi Analyzer", Description: "Survey nearby wireless networks", Category: CategoryAnalysis},
	{ID: "subnet_calculator", Name: "Subnet Calculator", Description: "Compute network ranges from CIDR notation", Category: CategoryUtilities},
	{ID: "json_formatter", Name: "JSON Formatter", Description: "Pretty-print JSON documents", Category: CategoryUtilities},
}

// Catalog returns every tool in catalog order
func Catalog() []Tool {
	out := make([]Tool, len(catalog))
	copy(out, catalog)
	return out
}

// ToolInfo looks a tool up by id
func ToolInfo(id string) (Tool, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// ToolsByCategory returns the tools of one category in catalog order
func ToolsByCategory(category Category) []Tool {
	var out []Tool
	for _, t := range catalog {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}
