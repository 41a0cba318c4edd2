package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/equipment-rental/internal/model" // role names
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64: // JWT numeric claims decode as float64
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole extracts the role claim stored by the JWT middleware.
func getRole(c echo.Context) string {
    if role, ok := c.Get("role").(string); ok {
        return role
    }
    return ""
}

// canManageWarehouse reports whether the caller may administer the
// given warehouse: managers may administer any, storage managers
// only the warehouse on their own profile.
func canManageWarehouse(role string, callerWarehouse *uint64, warehouseID uint64) bool {
    if role == model.RoleManager {
        return true
    }
    if role != model.RoleStorageManager {
        return false
    }
    return callerWarehouse != nil && *callerWarehouse == warehouseID
}

// parseID parses a positive uint64 path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// formatUint renders a numeric identifier for audit entity_id
// columns, which are strings to also cover UUID-keyed tables.
func formatUint(id uint64) string {
    return strconv.FormatUint(id, 10)
}
