package service

// In-memory repository stubs shared by the service tests. DB() returns nil
// so runTx executes the transaction body directly.

import (
	"context"
	"sort"
	"strings"

	"enci/internal/model"
	"enci/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── UsuarioRepository ────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	users    map[uuid.UUID]*model.Usuario
	perfiles map[uuid.UUID]*model.Perfil // keyed by UsuarioID
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{
		users:    make(map[uuid.UUID]*model.Usuario),
		perfiles: make(map[uuid.UUID]*model.Perfil),
	}
}

func (r *stubUsuarioRepo) Create(_ context.Context, _ *gorm.DB, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) CreatePerfil(_ context.Context, _ *gorm.DB, p *model.Perfil) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.perfiles[p.UsuarioID] = p
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.Username == username || (u.Email != nil && strings.EqualFold(*u.Email, username)) {
			u.Perfil = r.perfiles[u.ID]
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	u.Perfil = r.perfiles[id]
	return u, nil
}

func (r *stubUsuarioRepo) FindPerfil(_ context.Context, usuarioID uuid.UUID) (*model.Perfil, error) {
	p, ok := r.perfiles[usuarioID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubUsuarioRepo) UpdatePerfil(_ context.Context, _ *gorm.DB, p *model.Perfil) error {
	r.perfiles[p.UsuarioID] = p
	return nil
}

func (r *stubUsuarioRepo) ExistsUsername(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUsuarioRepo) ExistsEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUsuarioRepo) ListAdmins(_ context.Context) ([]model.Usuario, error) {
	var admins []model.Usuario
	for id, u := range r.users {
		p := r.perfiles[id]
		if u.IsSuperuser || (p != nil && p.Rol == model.RolAdmin) {
			u.Perfil = p
			admins = append(admins, *u)
		}
	}
	return admins, nil
}

func (r *stubUsuarioRepo) ListEstudiantes(_ context.Context, q string, page, limit int) ([]model.Usuario, int64, error) {
	var out []model.Usuario
	for id, u := range r.users {
		p := r.perfiles[id]
		if p == nil || p.Rol != model.RolEstudiante {
			continue
		}
		if q != "" && !strings.Contains(u.Username, q) {
			continue
		}
		u.Perfil = p
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, int64(len(out)), nil
}

func (r *stubUsuarioRepo) DB() *gorm.DB { return nil }

// ── InvitationRepository ─────────────────────────────────────────────────────

type stubInvitationRepo struct {
	invitations map[uuid.UUID]*model.Invitation
	referrals   *stubReferralRepo
	// createErrs is consumed FIFO by Create to simulate storage failures
	createErrs []error
	// forceConsumeFail makes ConsumirUso report zero rows, simulating a
	// concurrent redeemer winning the last use between the pre-flight check
	// and the conditional update.
	forceConsumeFail bool
}

func newStubInvitationRepo(referrals *stubReferralRepo) *stubInvitationRepo {
	return &stubInvitationRepo{
		invitations: make(map[uuid.UUID]*model.Invitation),
		referrals:   referrals,
	}
}

func (r *stubInvitationRepo) Create(_ context.Context, inv *model.Invitation) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invitations[inv.ID] = inv
	return nil
}

func (r *stubInvitationRepo) FindByCode(_ context.Context, code string) (*model.Invitation, error) {
	for _, inv := range r.invitations {
		if inv.Code == code {
			return inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvitationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invitation, error) {
	inv, ok := r.invitations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInvitationRepo) ListByCreator(_ context.Context, creatorID uuid.UUID) ([]model.Invitation, error) {
	var out []model.Invitation
	for _, inv := range r.invitations {
		if inv.CreatorID == creatorID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInvitationRepo) Update(_ context.Context, inv *model.Invitation) error {
	r.invitations[inv.ID] = inv
	return nil
}

func (r *stubInvitationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.invitations, id)
	return nil
}

func (r *stubInvitationRepo) CountReferrals(_ context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if r.referrals == nil {
		return 0, nil
	}
	for _, ref := range r.referrals.referrals {
		if ref.InvitationID != nil && *ref.InvitationID == id {
			count++
		}
	}
	return count, nil
}

// ConsumirUso mimics the conditional UPDATE: zero rows when the invitation
// is no longer redeemable.
func (r *stubInvitationRepo) ConsumirUso(_ context.Context, _ *gorm.DB, id uuid.UUID) (int64, error) {
	if r.forceConsumeFail {
		return 0, nil
	}
	inv, ok := r.invitations[id]
	if !ok || !inv.Active {
		return 0, nil
	}
	if inv.MaxUses != nil && inv.UsesCount >= *inv.MaxUses {
		return 0, nil
	}
	inv.UsesCount++
	if inv.MaxUses != nil && inv.UsesCount >= *inv.MaxUses {
		inv.Active = false
	}
	return 1, nil
}

// ── ReferralRepository ───────────────────────────────────────────────────────

type stubReferralRepo struct {
	referrals map[uuid.UUID]*model.Referral
}

func newStubReferralRepo() *stubReferralRepo {
	return &stubReferralRepo{referrals: make(map[uuid.UUID]*model.Referral)}
}

func (r *stubReferralRepo) Create(_ context.Context, _ *gorm.DB, ref *model.Referral) error {
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	r.referrals[ref.ID] = ref
	return nil
}

func (r *stubReferralRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Referral, error) {
	ref, ok := r.referrals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ref, nil
}

func (r *stubReferralRepo) ListByDocente(_ context.Context, docenteID uuid.UUID, _ string, _, _ int) ([]model.Referral, int64, error) {
	var out []model.Referral
	for _, ref := range r.referrals {
		if ref.DocenteID == docenteID {
			out = append(out, *ref)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubReferralRepo) Update(_ context.Context, _ *gorm.DB, ref *model.Referral) error {
	r.referrals[ref.ID] = ref
	return nil
}

func (r *stubReferralRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.referrals, id)
	return nil
}

func (r *stubReferralRepo) CountByGrupo(_ context.Context, grupoID uuid.UUID) (int64, int64, error) {
	var total, activated int64
	for _, ref := range r.referrals {
		if ref.GrupoID != nil && *ref.GrupoID == grupoID {
			total++
			if ref.Activated {
				activated++
			}
		}
	}
	return total, activated, nil
}

// ── GrupoRepository ──────────────────────────────────────────────────────────

type stubGrupoRepo struct {
	grupos map[uuid.UUID]*model.Grupo
}

func newStubGrupoRepo() *stubGrupoRepo {
	return &stubGrupoRepo{grupos: make(map[uuid.UUID]*model.Grupo)}
}

func (r *stubGrupoRepo) Create(_ context.Context, g *model.Grupo) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.grupos[g.ID] = g
	return nil
}

func (r *stubGrupoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Grupo, error) {
	g, ok := r.grupos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return g, nil
}

func (r *stubGrupoRepo) ListByDocente(_ context.Context, docenteID uuid.UUID) ([]model.Grupo, error) {
	var out []model.Grupo
	for _, g := range r.grupos {
		if g.DocenteID == docenteID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *stubGrupoRepo) Update(_ context.Context, g *model.Grupo) error {
	r.grupos[g.ID] = g
	return nil
}

func (r *stubGrupoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.grupos, id)
	return nil
}

// ── AuditRepository ──────────────────────────────────────────────────────────

type stubAuditRepo struct {
	entries []model.AuditLog
}

func (r *stubAuditRepo) Create(_ context.Context, _ *gorm.DB, entry *model.AuditLog) error {
	entry.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

func (r *stubAuditRepo) byAction(action string) []model.AuditLog {
	var out []model.AuditLog
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// ── NotificationRepository ───────────────────────────────────────────────────

type stubNotificationRepo struct {
	notes     []model.Notification
	createErr error
}

func (r *stubNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	n.ID = uint(len(r.notes) + 1)
	r.notes = append(r.notes, *n)
	return nil
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID, _ int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range r.notes {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.notes {
		if n.RecipientID == recipientID && n.Unread {
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id uint, recipientID uuid.UUID) error {
	for i, n := range r.notes {
		if n.ID == id && n.RecipientID == recipientID {
			r.notes[i].Unread = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, recipientID uuid.UUID) error {
	for i, n := range r.notes {
		if n.RecipientID == recipientID {
			r.notes[i].Unread = false
		}
	}
	return nil
}

func (r *stubNotificationRepo) Delete(_ context.Context, id uint, recipientID uuid.UUID) error {
	for i, n := range r.notes {
		if n.ID == id && n.RecipientID == recipientID {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubNotificationRepo) DeleteAll(_ context.Context, recipientID uuid.UUID) (int64, error) {
	var kept []model.Notification
	var removed int64
	for _, n := range r.notes {
		if n.RecipientID == recipientID {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	r.notes = kept
	return removed, nil
}

// ── AsientoRepository ────────────────────────────────────────────────────────

type stubAsientoRepo struct {
	asientos      map[uint]*model.Asiento
	transacciones map[uint]*model.Transaccion
	cuentas       map[uint]*repository.CuentaConHijos
	nextAsiento   uint
	nextLinea     uint
}

func newStubAsientoRepo() *stubAsientoRepo {
	return &stubAsientoRepo{
		asientos:      make(map[uint]*model.Asiento),
		transacciones: make(map[uint]*model.Transaccion),
		cuentas:       make(map[uint]*repository.CuentaConHijos),
	}
}

func (r *stubAsientoRepo) addCuenta(id uint, auxiliar, activa, tieneHijos bool) {
	r.cuentas[id] = &repository.CuentaConHijos{
		CuentaContable: model.CuentaContable{
			ID: id, Codigo: "1.1", Descripcion: "Cuenta", Tipo: model.TipoActivo,
			Naturaleza: model.NaturalezaDeudora, EsAuxiliar: auxiliar, Activa: activa,
		},
		TieneHijos: tieneHijos,
	}
}

func (r *stubAsientoRepo) CreateAsiento(_ context.Context, _ *gorm.DB, a *model.Asiento) error {
	r.nextAsiento++
	a.ID = r.nextAsiento
	r.asientos[a.ID] = a
	return nil
}

func (r *stubAsientoRepo) BulkCreateTransacciones(_ context.Context, _ *gorm.DB, lineas []model.Transaccion) error {
	for i := range lineas {
		r.nextLinea++
		lineas[i].ID = r.nextLinea
		copia := lineas[i]
		r.transacciones[copia.ID] = &copia
	}
	return nil
}

func (r *stubAsientoRepo) FindByID(_ context.Context, id uint) (*model.Asiento, error) {
	a, ok := r.asientos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a.Transacciones = r.lineasDe(id)
	return a, nil
}

func (r *stubAsientoRepo) List(_ context.Context, _, _ int) ([]model.Asiento, int64, error) {
	var out []model.Asiento
	for _, a := range r.asientos {
		copia := *a
		copia.Transacciones = r.lineasDe(a.ID)
		out = append(out, copia)
	}
	return out, int64(len(out)), nil
}

func (r *stubAsientoRepo) FindCuentas(_ context.Context, ids []uint) (map[uint]*repository.CuentaConHijos, error) {
	out := make(map[uint]*repository.CuentaConHijos)
	for _, id := range ids {
		if c, ok := r.cuentas[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (r *stubAsientoRepo) FindViolaciones(_ context.Context, afterID uint, limit int) ([]model.Transaccion, error) {
	var ids []uint
	for id, t := range r.transacciones {
		if id > afterID && t.Debe.IsPositive() && t.Haber.IsPositive() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]model.Transaccion, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.transacciones[id])
	}
	return out, nil
}

func (r *stubAsientoRepo) LockLinea(_ context.Context, _ *gorm.DB, id uint) (*model.Transaccion, error) {
	t, ok := r.transacciones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubAsientoRepo) CreateTransaccion(_ context.Context, _ *gorm.DB, t *model.Transaccion) error {
	r.nextLinea++
	t.ID = r.nextLinea
	r.transacciones[t.ID] = t
	return nil
}

func (r *stubAsientoRepo) DeleteTransaccion(_ context.Context, _ *gorm.DB, id uint) error {
	delete(r.transacciones, id)
	return nil
}

func (r *stubAsientoRepo) DB() *gorm.DB { return nil }

func (r *stubAsientoRepo) lineasDe(asientoID uint) []model.Transaccion {
	var ids []uint
	for id, t := range r.transacciones {
		if t.AsientoID == asientoID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Transaccion, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.transacciones[id])
	}
	return out
}
