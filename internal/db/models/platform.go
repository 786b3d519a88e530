package models

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// RegistryType distinguishes hosted registries from the self-hosted one
// managed by the platform itself.
type RegistryType string

const (
	RegistryTypeCloud      RegistryType = "cloud"
	RegistryTypeSelfHosted RegistryType = "selfHosted"
)

// Registry is an external container registry the cluster pushes builds to.
type Registry struct {
	bun.BaseModel `bun:"table:registries,alias:reg"`

	ID           string       `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name         string       `bun:"name,notnull"`
	URL          string       `bun:"url,notnull"`
	Username     string       `bun:"username,notnull"`
	Password     string       `bun:"password,notnull"`
	ImagePrefix  *string      `bun:"image_prefix"`
	RegistryType RegistryType `bun:"registry_type,notnull,default:'cloud'"`
	CreatedAt    time.Time    `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time    `bun:"updated_at,notnull,default:current_timestamp"`
}

// NodeStatus mirrors the orchestrator's view of a cluster member.
type NodeStatus string

const (
	NodeStatusReady NodeStatus = "ready"
	NodeStatusDown  NodeStatus = "down"
)

// ClusterNode is the persisted view of a swarm member, refreshed by the
// node sync job. The orchestrator owns the live state; this record is what
// the dashboard lists.
type ClusterNode struct {
	bun.BaseModel `bun:"table:cluster_nodes,alias:node"`

	ID           string     `bun:"id,pk"` // orchestrator node ID
	Hostname     string     `bun:"hostname,notnull"`
	Role         string     `bun:"role,notnull"` // manager | worker
	Status       NodeStatus `bun:"status,notnull,default:'ready'"`
	Availability string     `bun:"availability,notnull,default:'active'"`
	EngineVer    string     `bun:"engine_version"`
	Address      string     `bun:"address"`
	JoinedAt     time.Time  `bun:"joined_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}

// DatabaseEngine enumerates the managed database flavors.
type DatabaseEngine string

const (
	EnginePostgres DatabaseEngine = "postgres"
	EngineMariaDB  DatabaseEngine = "mariadb"
)

// DatabaseStatus is the lifecycle state of a managed database container.
type DatabaseStatus string

const (
	DatabaseStatusIdle    DatabaseStatus = "idle"
	DatabaseStatusRunning DatabaseStatus = "running"
	DatabaseStatusStopped DatabaseStatus = "done"
	DatabaseStatusError   DatabaseStatus = "error"
)

// DatabaseInstance is the desired state of a managed database container.
// The deployment engine reconciles containers against these records; the
// API only mutates the records.
type DatabaseInstance struct {
	bun.BaseModel `bun:"table:database_instances,alias:dbi"`

	ID           string         `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	AppName      string         `bun:"app_name,notnull,unique"`
	Engine       DatabaseEngine `bun:"engine,notnull"`
	DockerImage  string         `bun:"docker_image,notnull"`
	DatabaseName string         `bun:"database_name,notnull"`
	DatabaseUser string         `bun:"database_user,notnull"`
	Password     string         `bun:"password,notnull"`
	ExternalPort *int           `bun:"external_port"` // nil = not exposed outside the cluster
	Status       DatabaseStatus `bun:"status,notnull,default:'idle'"`
	CreatedAt    time.Time      `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time      `bun:"updated_at,notnull,default:current_timestamp"`
}

// ExternalConnectionURL renders the connection string shown in the
// credentials dialog. Empty when the database is not externally exposed.
func (d *DatabaseInstance) ExternalConnectionURL(host string) string {
	if d == nil || d.ExternalPort == nil {
		return ""
	}
	port := strconv.Itoa(*d.ExternalPort)
	switch d.Engine {
	case EnginePostgres:
		return "postgresql://" + d.DatabaseUser + ":" + d.Password + "@" + host + ":" + port + "/" + d.DatabaseName
	case EngineMariaDB:
		return "mysql://" + d.DatabaseUser + ":" + d.Password + "@" + host + ":" + port + "/" + d.DatabaseName
	default:
		return ""
	}
}
