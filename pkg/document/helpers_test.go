package document

import errs "github.com/matzehuels/bridges/pkg/errors"

func errCode(err error) errs.Code { return errs.GetCode(err) }
