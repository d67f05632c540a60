package normalize

import (
	"fmt"

	"bakeryconsole/backend/internal/domain"
	"bakeryconsole/backend/internal/envelope"
	r "bakeryconsole/backend/internal/reconcile"
)

var auditSchema = r.NewSchema(
	r.Field{Name: "id", Keys: []string{"id"}, Kind: r.Integer, Default: int64(0)},
	r.Field{Name: "actor", Keys: []string{"actor"}, Kind: r.Integer},
	r.Field{Name: "actorName", Keys: []string{"actorName", "actor_name", "actor__username"}, Kind: r.NullableString},
	r.Field{Name: "actorFullName", Keys: []string{"actorFullName", "actor_full_name"}, Kind: r.NullableString},
	r.Field{Name: "ipAddress", Keys: []string{"ipAddress", "ip_address"}, Kind: r.NullableString},
	r.Field{Name: "timestamp", Keys: []string{"timestamp"}, Kind: r.String},
	r.Field{Name: "action", Keys: []string{"action"}, Kind: r.String},
	r.Field{Name: "tableName", Keys: []string{"tableName", "table_name"}, Kind: r.String},
	r.Field{Name: "recordId", Keys: []string{"recordId", "record_id"}, Kind: r.String},
	r.Field{Name: "oldValue", Keys: []string{"oldValue", "old_value"}, Kind: r.Passthrough},
	r.Field{Name: "newValue", Keys: []string{"newValue", "new_value"}, Kind: r.Passthrough},
)

func AuditLog(raw envelope.Record, rep *Report) domain.AuditLog {
	res := apply(auditSchema, raw, "audit", rep)
	action := domain.AuditAction(res.Text("action"))
	if !action.Valid() {
		rep.add("audit", []string{fmt.Sprintf("action: unknown value %q", action)})
	}
	return domain.AuditLog{
		ID:            res.Int("id"),
		Actor:         res.IntPtr("actor"),
		ActorName:     res.NullableString("actorName"),
		ActorFullName: res.NullableString("actorFullName"),
		IPAddress:     res.NullableString("ipAddress"),
		Timestamp:     res.Text("timestamp"),
		Action:        action,
		TableName:     res.Text("tableName"),
		RecordID:      res.Text("recordId"),
		OldValue:      res.Raw("oldValue"),
		NewValue:      res.Raw("newValue"),
	}
}
