package rdb

import "time"

// EnvironmentRecord is the RDB persistence model for domain Environment.
// Table name: environments
type EnvironmentRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(64);not null"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (EnvironmentRecord) TableName() string { return "environments" }

// ClusterRecord persistence model
type ClusterRecord struct {
	ID                    string    `gorm:"primaryKey;type:varchar(64);not null"`
	Name                  string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	APIAddress            string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Token                 string    `gorm:"type:text;not null"`
	EnvironmentID         string    `gorm:"type:varchar(64);not null;index"` // references Environment
	InsecureSkipTLSVerify bool      `gorm:"not null"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

func (ClusterRecord) TableName() string { return "clusters" }

// ApplicationRecord persistence model
type ApplicationRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(64);not null"`
	Name      string    `gorm:"type:varchar(63);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ApplicationRecord) TableName() string { return "applications" }

// InstanceRecord persistence model
type InstanceRecord struct {
	ID            string    `gorm:"primaryKey;type:varchar(64);not null"`
	ApplicationID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_instance_app_env"` // references Application
	EnvironmentID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_instance_app_env"` // references Environment
	Image         string    `gorm:"type:varchar(512)"`
	Version       string    `gorm:"type:varchar(128)"`
	Enabled       bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (InstanceRecord) TableName() string { return "instances" }

// ComponentRecord persistence model
type ComponentRecord struct {
	ID         string    `gorm:"primaryKey;type:varchar(64);not null"`
	InstanceID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_component_instance_name"` // references Instance
	Name       string    `gorm:"type:varchar(63);not null;uniqueIndex:idx_component_instance_name"`
	Type       string    `gorm:"type:varchar(16);not null"`
	Settings   string    `gorm:"type:text"` // JSON encoded map[string]any
	URL        *string   `gorm:"type:varchar(255);uniqueIndex"`
	Enabled    bool      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (ComponentRecord) TableName() string { return "application_components" }

// ClusterInstanceRecord persistence model
type ClusterInstanceRecord struct {
	ID          string    `gorm:"primaryKey;type:varchar(64);not null"`
	ClusterID   string    `gorm:"type:varchar(64);not null;index"`       // references Cluster
	ComponentID string    `gorm:"type:varchar(64);not null;uniqueIndex"` // references Component
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ClusterInstanceRecord) TableName() string { return "cluster_instances" }

// TemplateRecord persistence model
type TemplateRecord struct {
	ID              string    `gorm:"primaryKey;type:varchar(64);not null"`
	Name            string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description     string    `gorm:"type:text"`
	Category        string    `gorm:"type:varchar(64)"`
	Content         string    `gorm:"type:text;not null"`
	VariablesSchema string    `gorm:"type:text"` // JSON encoded map[string]any
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (TemplateRecord) TableName() string { return "templates" }

// TemplateConfigRecord persistence model
type TemplateConfigRecord struct {
	ID            string    `gorm:"primaryKey;type:varchar(64);not null"`
	ComponentType string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_tcfg_type_template"`
	TemplateID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_tcfg_type_template"` // references Template
	RenderOrder   int       `gorm:"not null"`
	Enabled       bool      `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (TemplateConfigRecord) TableName() string { return "component_template_configs" }

// SettingRecord persistence model
type SettingRecord struct {
	ID            string    `gorm:"primaryKey;type:varchar(64);not null"`
	EnvironmentID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_setting_key_env"` // references Environment
	Key           string    `gorm:"column:setting_key;type:varchar(255);not null;uniqueIndex:idx_setting_key_env"`
	Value         string    `gorm:"type:text"` // JSON encoded value
	Description   string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (SettingRecord) TableName() string { return "settings" }
