package catalog

import (
	"encoding/xml"
	"fmt"
	"os"

	"robotadvisor/internal/core"
)

const (
	unknownRobotName = "Unknown Robot"
	reachPerLinkM    = 0.5
	payloadPerLinkKg = 2.0
)

// urdfRobot captures the direct children of <robot> needed for capability estimates.
type urdfRobot struct {
	XMLName xml.Name   `xml:"robot"`
	Name    string     `xml:"name,attr"`
	Links   []struct{} `xml:"link"`
	Joints  []struct{} `xml:"joint"`
}

// ParseURDF reads a URDF file and derives rough reach and payload estimates
// from its link count.
func ParseURDF(path string) (core.RobotRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.RobotRecord{}, err
	}
	var robot urdfRobot
	if err := xml.Unmarshal(data, &robot); err != nil {
		return core.RobotRecord{}, fmt.Errorf("parse urdf %s: %w", path, err)
	}
	name := robot.Name
	if name == "" {
		name = unknownRobotName
	}
	links := len(robot.Links)
	return core.RobotRecord{
		Name:               name,
		NumLinks:           links,
		NumJoints:          len(robot.Joints),
		EstimatedReachM:    float64(links) * reachPerLinkM,
		EstimatedPayloadKg: float64(links) * payloadPerLinkKg,
	}, nil
}
