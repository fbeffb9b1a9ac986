package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/INGMEGANO/PSPVoteBackend/internal/dto"
	"github.com/INGMEGANO/PSPVoteBackend/internal/model"
	"github.com/INGMEGANO/PSPVoteBackend/internal/repository"
	"github.com/INGMEGANO/PSPVoteBackend/internal/scope"
)

const cachePrefix = "dashboard:"

type DashboardService interface {
	CacheInvalidator

	Dashboard(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) (*dto.DashboardResponse, error)
	Resumen(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) (*dto.ResumenResponse, error)
	PorLider(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) ([]dto.ConteoSimple, error)
	PorDigitador(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) ([]dto.ConteoSimple, error)
	Duplicados(ctx context.Context, actor scope.Actor) (*dto.DuplicadosResumen, error)
	Pagos(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) ([]dto.PagoResumen, error)
	PorFecha(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) ([]dto.FechaResumen, error)

	RolesChart(ctx context.Context) ([]dto.RolChart, error)
	GeneroChart(ctx context.Context) ([]dto.GeneroChart, error)
	PuestosChart(ctx context.Context) ([]dto.ConteoSimple, error)
}

type dashboardService struct {
	repo     repository.VotacionRepository
	liders   repository.LiderRepository
	usuarios repository.UsuarioRepository
	puestos  repository.PuestoRepository
	rdb      *redis.Client
	ttl      time.Duration
}

// NewDashboardService builds the aggregation engine. rdb may be nil, which
// disables the response cache entirely.
func NewDashboardService(
	repo repository.VotacionRepository,
	liders repository.LiderRepository,
	usuarios repository.UsuarioRepository,
	puestos repository.PuestoRepository,
	rdb *redis.Client,
	ttl time.Duration,
) DashboardService {
	return &dashboardService{
		repo:     repo,
		liders:   liders,
		usuarios: usuarios,
		puestos:  puestos,
		rdb:      rdb,
		ttl:      ttl,
	}
}

// ── Cache ────────────────────────────────────────────────────────────────────

func cacheKey(kind string, actor scope.Actor, q dto.VotacionQuery) string {
	planilla := ""
	if q.Planilla != nil {
		planilla = fmt.Sprintf("%d", *q.Planilla)
	}
	return fmt.Sprintf("%s%s:%s:%s:d=%s,h=%s,p=%s,pr=%s,s=%s,l=%s,t=%s",
		cachePrefix, kind, actor.Rol, actor.UserID,
		q.Desde, q.Hasta, planilla, q.ProgramaID, q.SedeID, q.LeaderID, q.Tipo)
}

func (s *dashboardService) fromCache(ctx context.Context, key string, out interface{}) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (s *dashboardService) toCache(ctx context.Context, key string, v interface{}) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear la respuesta")
	}
}

// Invalidar drops every cached dashboard response. Called by the write path
// after any mutation of votaciones.
func (s *dashboardService) Invalidar(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, cachePrefix+"*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("fallo el scan de invalidación de cache")
		return
	}
	if len(keys) > 0 {
		if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
			log.Warn().Err(err).Msg("no se pudieron borrar claves de cache")
		}
	}
}

// ── Clasificación de pago ────────────────────────────────────────────────────

// esPagada reports whether a registration counts on the paid side of the
// split. The CORAZÓN affiliation marks volunteer work and always counts as
// unpaid, whatever the stored flag says.
func esPagada(v *model.Votacion) bool {
	if v.Tipo != nil && v.Tipo.Nombre == model.TipoCorazon {
		return false
	}
	return v.EsPago != nil && *v.EsPago
}

// ── Dashboard ────────────────────────────────────────────────────────────────

type grupoAcc struct {
	pago   int
	noPago int
}

func (g grupoAcc) total() int { return g.pago + g.noPago }

func acumular(m map[string]*grupoAcc, clave string, pagada bool) {
	acc, ok := m[clave]
	if !ok {
		acc = &grupoAcc{}
		m[clave] = acc
	}
	if pagada {
		acc.pago++
	} else {
		acc.noPago++
	}
}

func clavesOrdenadas(m map[string]*grupoAcc) []string {
	claves := make([]string, 0, len(m))
	for k := range m {
		claves = append(claves, k)
	}
	sort.Slice(claves, func(i, j int) bool {
		a, b := m[claves[i]], m[claves[j]]
		if a.total() != b.total() {
			return a.total() > b.total()
		}
		return claves[i] < claves[j]
	})
	return claves
}

// Dashboard builds the full breakdown. Every percentage divides by the
// overall scoped total, so rows across sections are comparable on one base.
func (s *dashboardService) Dashboard(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) (*dto.DashboardResponse, error) {
	key := cacheKey("general", actor, q)
	var cached dto.DashboardResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	rows, err := s.filasEnRango(ctx, actor, q)
	if err != nil {
		return nil, err
	}

	total := len(rows)
	pagos := 0
	porLider := map[string]*grupoAcc{}
	porPrograma := map[string]*grupoAcc{}
	porPuesto := map[string]*grupoAcc{}
	porTipo := map[string]int{}

	for i := range rows {
		v := &rows[i]
		pagada := esPagada(v)
		if pagada {
			pagos++
		}
		acumular(porLider, nombreLider(v), pagada)
		acumular(porPrograma, nombrePrograma(v), pagada)
		acumular(porPuesto, nombrePuesto(v), pagada)
		porTipo[nombreTipo(v)]++
	}

	t := int64(total)
	resp := &dto.DashboardResponse{
		TotalVotaciones: total,
		Pagos: []dto.PagoResumen{
			{EsPago: true, Total: pagos, Porcentaje: porcentaje(int64(pagos), t, 2)},
			{EsPago: false, Total: total - pagos, Porcentaje: porcentaje(int64(total-pagos), t, 2)},
		},
		PorLider:    grupos[dto.LiderResumen](porLider, t, func(clave string, g dto.GrupoResumen) dto.LiderResumen { return dto.LiderResumen{Lider: clave, GrupoResumen: g} }),
		PorPrograma: grupos[dto.ProgramaResumen](porPrograma, t, func(clave string, g dto.GrupoResumen) dto.ProgramaResumen { return dto.ProgramaResumen{Programa: clave, GrupoResumen: g} }),
		PorPuesto:   grupos[dto.PuestoResumen](porPuesto, t, func(clave string, g dto.GrupoResumen) dto.PuestoResumen { return dto.PuestoResumen{PuestoVotacion: clave, GrupoResumen: g} }),
	}

	tipos := make([]string, 0, len(porTipo))
	for k := range porTipo {
		tipos = append(tipos, k)
	}
	sort.Slice(tipos, func(i, j int) bool {
		if porTipo[tipos[i]] != porTipo[tipos[j]] {
			return porTipo[tipos[i]] > porTipo[tipos[j]]
		}
		return tipos[i] < tipos[j]
	})
	for _, nombre := range tipos {
		n := porTipo[nombre]
		resp.PorTipo = append(resp.PorTipo, dto.TipoResumen{
			Tipo:       nombre,
			Total:      n,
			Porcentaje: porcentaje(int64(n), t, 2),
		})
	}

	s.toCache(ctx, key, resp)
	return resp, nil
}

// grupos materializes an accumulator map into ordered breakdown rows with
// percentages over the given denominator.
func grupos[T any](m map[string]*grupoAcc, denominador int64, build func(clave string, g dto.GrupoResumen) T) []T {
	out := make([]T, 0, len(m))
	for _, clave := range clavesOrdenadas(m) {
		acc := m[clave]
		out = append(out, build(clave, dto.GrupoResumen{
			Pago:             acc.pago,
			NoPago:           acc.noPago,
			Total:            acc.total(),
			PorcentajePago:   porcentaje(int64(acc.pago), denominador, 2),
			PorcentajeNoPago: porcentaje(int64(acc.noPago), denominador, 2),
			PorcentajeTotal:  porcentaje(int64(acc.total()), denominador, 2),
		}))
	}
	return out
}

// Resumen mirrors Dashboard but each group's paid/unpaid percentages divide
// by the group's own subtotal.
func (s *dashboardService) Resumen(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) (*dto.ResumenResponse, error) {
	key := cacheKey("resumen", actor, q)
	var cached dto.ResumenResponse
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	rows, err := s.filasEnRango(ctx, actor, q)
	if err != nil {
		return nil, err
	}

	total := len(rows)
	pagos := 0
	porLider := map[string]*grupoAcc{}
	porPrograma := map[string]*grupoAcc{}
	porPuesto := map[string]*grupoAcc{}

	for i := range rows {
		v := &rows[i]
		pagada := esPagada(v)
		if pagada {
			pagos++
		}
		acumular(porLider, nombreLider(v), pagada)
		acumular(porPrograma, nombrePrograma(v), pagada)
		acumular(porPuesto, nombrePuesto(v), pagada)
	}

	t := int64(total)
	resp := &dto.ResumenResponse{
		Total: total,
		Pagos: dto.PagosResumenTotal{
			Pago:             pagos,
			NoPago:           total - pagos,
			PorcentajePago:   porcentaje(int64(pagos), t, 2),
			PorcentajeNoPago: porcentaje(int64(total-pagos), t, 2),
		},
		PorLider:    gruposSubtotal[dto.LiderResumen](porLider, func(clave string, g dto.GrupoResumen) dto.LiderResumen { return dto.LiderResumen{Lider: clave, GrupoResumen: g} }),
		PorPrograma: gruposSubtotal[dto.ProgramaResumen](porPrograma, func(clave string, g dto.GrupoResumen) dto.ProgramaResumen { return dto.ProgramaResumen{Programa: clave, GrupoResumen: g} }),
		PorPuesto:   gruposSubtotal[dto.PuestoResumen](porPuesto, func(clave string, g dto.GrupoResumen) dto.PuestoResumen { return dto.PuestoResumen{PuestoVotacion: clave, GrupoResumen: g} }),
	}

	s.toCache(ctx, key, resp)
	return resp, nil
}

func gruposSubtotal[T any](m map[string]*grupoAcc, build func(clave string, g dto.GrupoResumen) T) []T {
	out := make([]T, 0, len(m))
	for _, clave := range clavesOrdenadas(m) {
		acc := m[clave]
		sub := int64(acc.total())
		out = append(out, build(clave, dto.GrupoResumen{
			Pago:             acc.pago,
			NoPago:           acc.noPago,
			Total:            acc.total(),
			PorcentajePago:   porcentaje(int64(acc.pago), sub, 2),
			PorcentajeNoPago: porcentaje(int64(acc.noPago), sub, 2),
			PorcentajeTotal:  100,
		}))
	}
	return out
}

func (s *dashboardService) filasEnRango(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) ([]model.Votacion, error) {
	f, err := scope.ForActor(actor)
	if err != nil {
		return nil, err
	}
	query, err := parseQuery(q)
	if err != nil {
		return nil, err
	}
	f = f.ConQuery(actor, query)
	return s.repo.ListParaDashboard(ctx, f, q.Tipo)
}

func nombreLider(v *model.Votacion) string {
	if v.Leader != nil {
		return v.Leader.Nombre
	}
	return "Sin líder"
}

func nombrePrograma(v *model.Votacion) string {
	if v.Programa != nil {
		return v.Programa.Nombre
	}
	return "Sin programa"
}

func nombrePuesto(v *model.Votacion) string {
	if v.PuestoVotacion != nil {
		return v.PuestoVotacion.Puesto
	}
	return "Sin puesto"
}

func nombreTipo(v *model.Votacion) string {
	if v.Tipo != nil {
		return v.Tipo.Nombre
	}
	return "Sin tipo"
}

// ── Conteos ──────────────────────────────────────────────────────────────────

func (s *dashboardService) PorLider(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) ([]dto.ConteoSimple, error) {
	f, err := scope.ForActor(actor)
	if err != nil {
		return nil, err
	}
	query, err := parseQuery(q)
	if err != nil {
		return nil, err
	}
	f = f.ConQuery(actor, query)

	conteos, err := s.repo.CountPorLider(ctx, f)
	if err != nil {
		return nil, err
	}
	nombres, err := s.nombresLideres(ctx)
	if err != nil {
		return nil, err
	}
	return resolverConteos(conteos, nombres), nil
}

func (s *dashboardService) PorDigitador(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) ([]dto.ConteoSimple, error) {
	f, err := scope.ForActor(actor)
	if err != nil {
		return nil, err
	}
	query, err := parseQuery(q)
	if err != nil {
		return nil, err
	}
	f = f.ConQuery(actor, query)

	conteos, err := s.repo.CountPorDigitador(ctx, f)
	if err != nil {
		return nil, err
	}
	usuarios, err := s.usuarios.List(ctx)
	if err != nil {
		return nil, err
	}
	nombres := make(map[string]string, len(usuarios))
	for i := range usuarios {
		nombres[usuarios[i].ID.String()] = usuarios[i].Username
	}
	return resolverConteos(conteos, nombres), nil
}

func (s *dashboardService) nombresLideres(ctx context.Context) (map[string]string, error) {
	ls, err := s.liders.List(ctx)
	if err != nil {
		return nil, err
	}
	nombres := make(map[string]string, len(ls))
	for i := range ls {
		nombres[ls[i].ID.String()] = ls[i].Nombre
	}
	return nombres, nil
}

// resolverConteos swaps ids for display names and fills percentages over the
// grand total, ordered by total descending.
func resolverConteos(conteos []dto.ConteoSimple, nombres map[string]string) []dto.ConteoSimple {
	var total int64
	for _, c := range conteos {
		total += c.Total
	}
	out := make([]dto.ConteoSimple, 0, len(conteos))
	for _, c := range conteos {
		clave := c.Clave
		if nombre, ok := nombres[c.Clave]; ok {
			clave = nombre
		}
		out = append(out, dto.ConteoSimple{
			Clave:      clave,
			Total:      c.Total,
			Porcentaje: porcentaje(c.Total, total, 2),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Clave < out[j].Clave
	})
	return out
}

func (s *dashboardService) Duplicados(ctx context.Context, actor scope.Actor) (*dto.DuplicadosResumen, error) {
	f, err := scope.ForActor(actor)
	if err != nil {
		return nil, err
	}
	total, duplicadas, err := s.repo.CountDuplicadas(ctx, f)
	if err != nil {
		return nil, err
	}
	porLider, err := s.repo.DuplicadasPorLider(ctx, f)
	if err != nil {
		return nil, err
	}
	nombres, err := s.nombresLideres(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DuplicadosResumen{
		TotalDuplicados: duplicadas,
		Porcentaje:      porcentaje(duplicadas, total, 2),
		PorLider:        resolverConteos(porLider, nombres),
	}, nil
}

func (s *dashboardService) Pagos(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) ([]dto.PagoResumen, error) {
	rows, err := s.filasEnRango(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	total := len(rows)
	pagos := 0
	for i := range rows {
		if esPagada(&rows[i]) {
			pagos++
		}
	}
	t := int64(total)
	return []dto.PagoResumen{
		{EsPago: true, Total: pagos, Porcentaje: porcentaje(int64(pagos), t, 2)},
		{EsPago: false, Total: total - pagos, Porcentaje: porcentaje(int64(total-pagos), t, 2)},
	}, nil
}

func (s *dashboardService) PorFecha(ctx context.Context, actor scope.Actor, q dto.VotacionQuery) ([]dto.FechaResumen, error) {
	rows, err := s.filasEnRango(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	porDia := map[string]int64{}
	for i := range rows {
		porDia[rows[i].CreatedAt.Format("2006-01-02")]++
	}
	fechas := make([]string, 0, len(porDia))
	for f := range porDia {
		fechas = append(fechas, f)
	}
	sort.Strings(fechas)

	total := int64(len(rows))
	out := make([]dto.FechaResumen, 0, len(fechas))
	for _, f := range fechas {
		out = append(out, dto.FechaResumen{
			Fecha:      f,
			Total:      porDia[f],
			Porcentaje: porcentaje(porDia[f], total, 2),
		})
	}
	return out, nil
}

// ── Analytics ────────────────────────────────────────────────────────────────

func (s *dashboardService) RolesChart(ctx context.Context) ([]dto.RolChart, error) {
	porRol, err := s.usuarios.CountPorRol(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range porRol {
		total += n
	}
	out := make([]dto.RolChart, 0, 3)
	for _, rol := range []string{model.RolAdmin, model.RolLider, model.RolDigitador} {
		n := porRol[rol]
		out = append(out, dto.RolChart{
			Nombre:     rol,
			Total:      n,
			Porcentaje: porcentaje(n, total, 2),
		})
	}
	return out, nil
}

// PuestosChart counts active registrations per polling station.
func (s *dashboardService) PuestosChart(ctx context.Context) ([]dto.ConteoSimple, error) {
	porPuesto, err := s.repo.CountActivasPorPuesto(ctx)
	if err != nil {
		return nil, err
	}
	ps, err := s.puestos.List(ctx)
	if err != nil {
		return nil, err
	}
	nombres := make(map[string]string, len(ps))
	for i := range ps {
		nombres[ps[i].ID.String()] = ps[i].Puesto
	}
	conteos := make([]dto.ConteoSimple, 0, len(porPuesto))
	for id, n := range porPuesto {
		conteos = append(conteos, dto.ConteoSimple{Clave: id.String(), Total: int64(n)})
	}
	return resolverConteos(conteos, nombres), nil
}

// GeneroChart aggregates the census gender columns across every polling
// station in the catalog.
func (s *dashboardService) GeneroChart(ctx context.Context) ([]dto.GeneroChart, error) {
	ps, err := s.puestos.List(ctx)
	if err != nil {
		return nil, err
	}
	mujeres, hombres := 0, 0
	for i := range ps {
		mujeres += ps[i].Mujeres
		hombres += ps[i].Hombres
	}
	total := int64(mujeres + hombres)
	return []dto.GeneroChart{
		{Genero: "Mujeres", Total: mujeres, Porcentaje: porcentaje(int64(mujeres), total, 2)},
		{Genero: "Hombres", Total: hombres, Porcentaje: porcentaje(int64(hombres), total, 2)},
	}, nil
}
