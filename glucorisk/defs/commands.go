package defs

const (
	RiskCmd  = "risk"
	SyncCmd  = "sync"
	ClearCmd = "clear"
)

// Register commands under here to get deployed.
var Commands = []CommandData{
	{Name: RiskCmd, Description: "Post the risk report for the current series."},
	{Name: SyncCmd, Description: "Replace the current series with the last day of Dexcom readings."},
	{Name: ClearCmd, Description: "Drop the current series."},
}

type CommandData struct {
	Name        string
	Description string
}

// EventInfo identifies the interaction to respond to.
type EventInfo struct {
	ID    uint64
	AppID uint64
	Token string
}

type CommandInteraction struct {
	Name string
}

type InteractionResponse struct {
	Content string
}
