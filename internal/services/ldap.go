package services

import (
	"crypto/tls"
	"fmt"
	"strconv"

	"github.com/go-ldap/ldap/v3"
	"github.com/webisdom/roamgenie-admin/internal/config"
	"gorm.io/gorm"
)

// LDAPService authenticates dashboard users against a directory server.
// Settings come from the ldap_* system config keys so admins can adjust
// them at runtime; the static config file provides the initial values.
type LDAPService struct {
	configSvc *SystemConfigService
}

func NewLDAPService(db *gorm.DB) *LDAPService {
	return &LDAPService{configSvc: NewSystemConfigService(db)}
}

type LDAPUser struct {
	DN       string
	Username string
	Email    string
	Nickname string
}

func (s *LDAPService) IsEnabled() bool {
	return s.configSvc.GetWithDefault("ldap_enabled", "false") == "true"
}

// loadConfig assembles the effective LDAP settings from system config,
// falling back to the file config for unset keys.
func (s *LDAPService) loadConfig() *config.LDAPConfig {
	var static config.LDAPConfig
	if config.GlobalConfig != nil {
		static = config.GlobalConfig.LDAP
	}

	cfg := &config.LDAPConfig{
		Enabled:      s.IsEnabled(),
		Host:         s.configSvc.GetWithDefault("ldap_host", static.Host),
		BaseDN:       s.configSvc.GetWithDefault("ldap_base_dn", static.BaseDN),
		BindDN:       s.configSvc.GetWithDefault("ldap_bind_dn", static.BindDN),
		BindPassword: s.configSvc.GetWithDefault("ldap_bind_password", static.BindPassword),
		UserFilter:   s.configSvc.GetWithDefault("ldap_user_filter", static.UserFilter),
		UseSSL:       s.configSvc.GetWithDefault("ldap_use_ssl", "false") == "true",
	}

	port, err := strconv.Atoi(s.configSvc.GetWithDefault("ldap_port", strconv.Itoa(static.Port)))
	if err != nil || port <= 0 {
		port = 389
	}
	cfg.Port = port

	if cfg.UserFilter == "" {
		cfg.UserFilter = "(uid=%s)"
	}

	return cfg
}

// Authenticate authenticates a user against LDAP
func (s *LDAPService) Authenticate(username, password string) (*LDAPUser, error) {
	cfg := s.loadConfig()
	if !cfg.Enabled {
		return nil, fmt.Errorf("LDAP is not enabled")
	}

	// Connect to LDAP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var conn *ldap.Conn
	var err error

	if cfg.UseSSL {
		conn, err = ldap.DialTLS("tcp", addr, &tls.Config{InsecureSkipVerify: true})
	} else {
		conn, err = ldap.Dial("tcp", addr)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}
	defer conn.Close()

	// Bind with service account (if configured)
	if cfg.BindDN != "" {
		err = conn.Bind(cfg.BindDN, cfg.BindPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to bind with service account: %w", err)
		}
	}

	// Search for user
	searchFilter := fmt.Sprintf(cfg.UserFilter, ldap.EscapeFilter(username))
	searchRequest := ldap.NewSearchRequest(
		cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		searchFilter,
		[]string{"dn", "cn", "mail", "uid", "sAMAccountName"},
		nil,
	)

	result, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("LDAP search failed: %w", err)
	}

	if len(result.Entries) == 0 {
		return nil, fmt.Errorf("user not found in LDAP")
	}

	if len(result.Entries) > 1 {
		return nil, fmt.Errorf("multiple users found in LDAP")
	}

	userDN := result.Entries[0].DN

	// Bind as user to verify password
	err = conn.Bind(userDN, password)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	// Extract user info
	entry := result.Entries[0]
	user := &LDAPUser{
		DN:       userDN,
		Username: entry.GetAttributeValue("uid"),
		Email:    entry.GetAttributeValue("mail"),
		Nickname: entry.GetAttributeValue("cn"),
	}

	// Try sAMAccountName if uid is empty (Active Directory)
	if user.Username == "" {
		user.Username = entry.GetAttributeValue("sAMAccountName")
	}

	return user, nil
}
