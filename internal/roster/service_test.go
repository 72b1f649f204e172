package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jihunparkme/aymc-high-school-class/internal/platform/apierr"
)

func newTestService() *Service {
	return NewServiceWithStore(newMemRoster())
}

func code(t *testing.T, err error) apierr.Code {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*apierr.Error)
	require.True(t, ok, "expected *apierr.Error, got %T", err)
	return apiErr.Code
}

func TestAddGradeReturnsReloadedRoster(t *testing.T) {
	svc := newTestService()
	g, r, err := svc.AddGrade(context.Background(), "고1")
	require.NoError(t, err)
	assert.Equal(t, 1, g.ID)
	require.Len(t, r.Grades, 1)
	assert.Equal(t, "고1", r.Grades[0].Name)
	assert.Empty(t, r.Grades[0].Classes)
}

func TestAddGradeBlankName(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.AddGrade(context.Background(), "   ")
	assert.Equal(t, apierr.CodeInvalidArgument, code(t, err))
}

func TestAddClass(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _, err := svc.AddGrade(ctx, "고1")
	require.NoError(t, err)

	cls, r, err := svc.AddClass(ctx, g.ID, "1반")
	require.NoError(t, err)
	assert.NotEmpty(t, cls.ID)
	require.Len(t, r.Grades, 1)
	require.Len(t, r.Grades[0].Classes, 1)
	assert.Equal(t, "1반", r.Grades[0].Classes[0].Name)

	// 같은 학년 안에서 반 이름 중복은 거부
	_, _, err = svc.AddClass(ctx, g.ID, "1반")
	assert.Equal(t, apierr.CodeDuplicateName, code(t, err))

	// 없는 학년
	_, _, err = svc.AddClass(ctx, 999, "2반")
	assert.Equal(t, apierr.CodeNotFound, code(t, err))
}

func TestDuplicateClassNameAllowedAcrossGrades(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g1, _, err := svc.AddGrade(ctx, "고1")
	require.NoError(t, err)
	g2, _, err := svc.AddGrade(ctx, "고2")
	require.NoError(t, err)

	_, _, err = svc.AddClass(ctx, g1.ID, "1반")
	require.NoError(t, err)
	_, _, err = svc.AddClass(ctx, g2.ID, "1반")
	assert.NoError(t, err)
}

func TestRenameClass(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _, err := svc.AddGrade(ctx, "고1")
	require.NoError(t, err)
	cls, _, err := svc.AddClass(ctx, g.ID, "1반")
	require.NoError(t, err)

	r, err := svc.RenameClass(ctx, cls.ID, "새1반")
	require.NoError(t, err)
	assert.Equal(t, "새1반", r.Grades[0].Classes[0].Name)

	_, err = svc.RenameClass(ctx, "missing", "x")
	assert.Equal(t, apierr.CodeNotFound, code(t, err))

	_, err = svc.RenameClass(ctx, cls.ID, "  ")
	assert.Equal(t, apierr.CodeInvalidArgument, code(t, err))
}

func TestRemoveClassCascades(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _, err := svc.AddGrade(ctx, "고1")
	require.NoError(t, err)
	cls, _, err := svc.AddClass(ctx, g.ID, "1반")
	require.NoError(t, err)
	_, _, err = svc.AddStudent(ctx, cls.ID, "학생", "남")
	require.NoError(t, err)

	r, err := svc.RemoveClass(ctx, cls.ID)
	require.NoError(t, err)
	assert.Empty(t, r.Grades[0].Classes)

	_, err = svc.RemoveClass(ctx, cls.ID)
	assert.Equal(t, apierr.CodeNotFound, code(t, err))
}

func TestAssignTeachersReplacesSet(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _, err := svc.AddGrade(ctx, "고1")
	require.NoError(t, err)
	cls, _, err := svc.AddClass(ctx, g.ID, "1반")
	require.NoError(t, err)
	t1, _, err := svc.AddTeacher(ctx, "김교사", nil)
	require.NoError(t, err)
	t2, _, err := svc.AddTeacher(ctx, "이교사", nil)
	require.NoError(t, err)

	r, err := svc.AssignTeachers(ctx, cls.ID, []string{t1.ID, t2.ID, t1.ID})
	require.NoError(t, err)
	// 중복은 걸러지고 집합 전체가 교체된다
	assert.Len(t, r.Grades[0].Classes[0].TeacherIDs, 2)

	r, err = svc.AssignTeachers(ctx, cls.ID, []string{t2.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{t2.ID}, r.Grades[0].Classes[0].TeacherIDs)

	_, err = svc.AssignTeachers(ctx, cls.ID, []string{"ghost"})
	assert.Equal(t, apierr.CodeNotFound, code(t, err))

	_, err = svc.AssignTeachers(ctx, "missing", nil)
	assert.Equal(t, apierr.CodeNotFound, code(t, err))
}

func TestRemoveTeacherDetachesFromClasses(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _, err := svc.AddGrade(ctx, "고1")
	require.NoError(t, err)
	cls, _, err := svc.AddClass(ctx, g.ID, "1반")
	require.NoError(t, err)
	tc, _, err := svc.AddTeacher(ctx, "김교사", nil)
	require.NoError(t, err)
	_, err = svc.AssignTeachers(ctx, cls.ID, []string{tc.ID})
	require.NoError(t, err)

	r, err := svc.RemoveTeacher(ctx, tc.ID)
	require.NoError(t, err)
	assert.Empty(t, r.Teachers)
	assert.Empty(t, r.Grades[0].Classes[0].TeacherIDs)
}

func TestAddStudentValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	g, _, err := svc.AddGrade(ctx, "고1")
	require.NoError(t, err)
	cls, _, err := svc.AddClass(ctx, g.ID, "1반")
	require.NoError(t, err)

	_, _, err = svc.AddStudent(ctx, cls.ID, "", "남")
	assert.Equal(t, apierr.CodeInvalidArgument, code(t, err))

	_, _, err = svc.AddStudent(ctx, cls.ID, "학생", "")
	assert.Equal(t, apierr.CodeInvalidArgument, code(t, err))

	_, _, err = svc.AddStudent(ctx, "missing", "학생", "남")
	assert.Equal(t, apierr.CodeNotFound, code(t, err))

	st, r, err := svc.AddStudent(ctx, cls.ID, "학생", "남")
	require.NoError(t, err)
	require.Len(t, r.Grades[0].Classes[0].Students, 1)
	assert.Equal(t, st.ID, r.Grades[0].Classes[0].Students[0].ID)
}

func TestSearchTeachers(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, _, err := svc.AddTeacher(ctx, "김교사", nil)
	require.NoError(t, err)
	_, _, err = svc.AddTeacher(ctx, "이교사", nil)
	require.NoError(t, err)

	hits, err := svc.SearchTeachers(ctx, "김")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "김교사", hits[0].Name)

	// 빈 검색어는 전체가 아니라 빈 결과
	hits, err = svc.SearchTeachers(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, hits)
}
