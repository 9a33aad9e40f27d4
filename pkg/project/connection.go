package project

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Neo4jConnection describes how to reach a graph database.
type Neo4jConnection struct {
	Name     string `json:"name"`
	Flavor   string `json:"flavor"`
	Host     string `json:"host" validate:"required"`
	Port     int    `json:"port" validate:"min=1,max=65535"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	Protocol string `json:"protocol"`
}

// DefaultConnection points at a local database on the bolt port.
func DefaultConnection() Neo4jConnection {
	return Neo4jConnection{
		Name:     "local",
		Flavor:   "neo4j",
		Host:     "localhost",
		Port:     7687,
		Username: "neo4j",
		Database: "neo4j",
		Protocol: "bolt",
	}
}

func (c Neo4jConnection) Validate() error {
	return validate.Struct(c)
}

// URI renders protocol://host:port, defaulting the protocol to bolt.
func (c Neo4jConnection) URI() string {
	protocol := c.Protocol
	if protocol == "" {
		protocol = "bolt"
	}
	return fmt.Sprintf("%s://%s:%d", protocol, c.Host, c.Port)
}
